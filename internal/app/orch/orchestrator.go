// Package orch routes decoded client messages to the room tables and owns the
// connection lifecycle.
//
// Every exported method takes the orchestrator lock, so each inbound message
// and each connect/disconnect is applied as one atomic step against the
// registry and both room tables.
package orch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/livedocs/internal/app"
	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/metrics"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotInDocument  = errors.New("not in a document room")
	ErrMissingTarget  = errors.New("missing target client id")
	ErrTargetNotFound = errors.New("target client not found")
	ErrNotRelayType   = errors.New("not a relay message type")
)

type Orchestrator struct {
	Registry  *app.Registry
	Documents *app.DocumentRooms
	Video     *app.VideoRooms
	Policy    app.Policy
	Metrics   *metrics.Collector

	mu sync.Mutex
}

// New wires an orchestrator with empty tables and the drop policy.
func New(m *metrics.Collector) *Orchestrator {
	return &Orchestrator{
		Registry:  app.NewRegistry(),
		Documents: app.NewDocumentRooms(),
		Video:     app.NewVideoRooms(),
		Policy:    app.DropPolicy{},
		Metrics:   m,
	}
}

// Connect registers sig, sends the welcome message and returns the new
// client id.
func (o *Orchestrator) Connect(sig core.SignalConnection) domain.ClientID {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.Registry.Register(sig)
	o.Metrics.ConnectionOpened()
	if err := o.sendLocked(id, sig, protocol.NewWelcome(id)); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("cid", string(id)).Msg("welcome not delivered")
	}
	log.Info().Str("module", "orch").Str("cid", string(id)).Int("connections", o.Registry.Count()).Msg("client connected")
	return id
}

// Disconnect removes every trace of id: document membership, video-room
// membership (announcing user-left) and the registry entry. Each step runs
// even when an earlier one fails.
func (o *Orchestrator) Disconnect(id domain.ClientID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Registry.Get(id)
	if !ok {
		return nil
	}

	var errs []error
	if sess.InDocument() {
		errs = append(errs, o.runStep(id, "leave document", func() error {
			o.leaveDocumentLocked(id, sess.Document)
			return nil
		}))
	}
	if sess.InRoom() {
		errs = append(errs, o.runStep(id, "leave room", func() error {
			o.leaveRoomLocked(id, sess.Room)
			return nil
		}))
	}
	errs = append(errs, o.runStep(id, "unregister", func() error {
		if !o.Registry.Unregister(id) {
			return app.ErrClientNotFound
		}
		o.Metrics.ConnectionClosed()
		return nil
	}))

	log.Info().Str("module", "orch").Str("cid", string(id)).Int("connections", o.Registry.Count()).Msg("client disconnected")
	return errors.Join(errs...)
}

// Send delivers v to a single connection.
func (o *Orchestrator) Send(id domain.ClientID, v any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	sig, ok := o.Registry.Resolve(id)
	if !ok {
		return app.ErrClientNotFound
	}
	return o.sendLocked(id, sig, v)
}

func (o *Orchestrator) runStep(id domain.ClientID, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", name, r)
		}
		if err != nil {
			log.Error().Err(err).Str("module", "orch").Str("cid", string(id)).Str("step", name).Msg("cleanup step failed")
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (o *Orchestrator) sendLocked(id domain.ClientID, sig core.SignalConnection, v any) error {
	f, err := protocol.Encode(v)
	if err != nil {
		return err
	}
	if !sig.IsOpen() {
		o.Metrics.Dropped(metrics.DropClosed, 1)
		return core.ErrConnClosed
	}
	if err := sig.TrySend(f); err != nil {
		if errors.Is(err, core.ErrBackpressure) {
			o.onDropped([]core.Member{core.NewMember(id, sig, "")})
		} else {
			o.Metrics.Dropped(metrics.DropClosed, 1)
		}
		return err
	}
	o.Metrics.Delivered(1)
	return nil
}

// publishResult records delivery stats and applies the backpressure policy.
func (o *Orchestrator) publishResult(res core.PublishResult) {
	o.Metrics.Delivered(res.SendTo)
	o.Metrics.Dropped(metrics.DropClosed, res.Skipped)
	o.onDropped(res.Dropped)
}

func (o *Orchestrator) onDropped(slow []core.Member) {
	o.Metrics.Dropped(metrics.DropBackpressure, len(slow))
	if o.Policy == nil {
		return
	}
	for _, m := range slow {
		switch o.Policy.OnBackPressure(m) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("cid", string(m.ID)).Msg("closing slow consumer")
			m.Signal.Close()
		case app.DropFrame, app.NoAction:
			log.Debug().Str("module", "orch").Str("cid", string(m.ID)).Msg("frame dropped on backpressure")
		}
	}
}

func (o *Orchestrator) syncRoomGauges() {
	o.Metrics.SetRooms(metrics.RoomKindDocument, o.Documents.Count())
	o.Metrics.SetRooms(metrics.RoomKindVideo, o.Video.Count())
}
