package orch

import (
	"encoding/json"

	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/metrics"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay forwards an offer, answer or ICE candidate to target, stamping the
// sender's id. The payload keeps its meaning but is re-serialized compactly,
// so insignificant whitespace is lost. A missing or closed target is dropped
// and reported only through the returned error.
func (o *Orchestrator) Relay(from domain.ClientID, typ string, target domain.ClientID, payload json.RawMessage) error {
	if !protocol.IsRelayType(typ) {
		return ErrNotRelayType
	}
	if target == "" {
		o.Metrics.Dropped(metrics.DropMalformed, 1)
		return ErrMissingTarget
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.Registry.Get(from); !ok {
		return errClient(from)
	}
	sig, ok := o.Registry.Resolve(target)
	if !ok {
		o.Metrics.Dropped(metrics.DropTargetNotFound, 1)
		log.Debug().Str("module", "orch").Str("cid", string(from)).Str("target", string(target)).Str("type", typ).Msg("relay target not found")
		return ErrTargetNotFound
	}
	log.Debug().Str("module", "orch").Str("cid", string(from)).Str("target", string(target)).Str("type", typ).Int("payload_len", len(payload)).Msg("routing signal")
	return o.sendLocked(target, sig, protocol.NewRelayedSignal(typ, from, payload))
}
