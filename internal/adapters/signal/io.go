package signal

import (
	"context"
	"time"

	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/metrics"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func messageType(k core.FrameKind) int {
	if k == core.BinaryFrame {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	var ping <-chan time.Time
	if ctl.Opts.PingPeriod > 0 {
		ticker := time.NewTicker(ctl.Opts.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case f, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(messageType(f.Kind), f.Data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ping:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(id domain.ClientID, c *WsSignalConn) {
	defer func() {
		c.Close()
		ctl.Limiter.Forget(id)
		if err := ctl.Orch.Disconnect(id); err != nil {
			log.Error().Err(err).Str("module", "signal").Str("cid", string(id)).Msg("disconnect cleanup incomplete")
		}
		log.Info().Str("module", "signal").Str("cid", string(id)).Msg("readPump closed")
	}()

	c.conn.SetReadLimit(ctl.Opts.ReadLimit)
	if ctl.Opts.PingPeriod > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Opts.PongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(ctl.Opts.PongWait))
		})
	}

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("cid", string(id)).Msg("readPump read error")
			}
			return
		}
		if ctl.Opts.PingPeriod > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Opts.PongWait))
		}
		if !ctl.Limiter.Allow(id) {
			ctl.Orch.Metrics.Dropped(metrics.DropRateLimited, 1)
			log.Debug().Str("module", "signal").Str("cid", string(id)).Msg("rate limited")
			continue
		}
		ctl.handleFrame(id, kind, data)
	}
}

func (ctl *SignalWSController) handleFrame(id domain.ClientID, kind int, data []byte) {
	if kind == websocket.BinaryMessage {
		ctl.Orch.Metrics.MessageReceived("binary")
		ctl.handleBinary(id, data)
		return
	}
	ctl.handleSignal(id, data)
}

func (ctl *SignalWSController) handleSignal(id domain.ClientID, data []byte) {
	env, err := protocol.ParseEnvelope(data)
	if err != nil {
		ctl.Orch.Metrics.Dropped(metrics.DropMalformed, 1)
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(id)).Msg("bad json")
		return
	}

	switch env.Type {
	case protocol.TypeJoin:
		ctl.handleJoin(id, data)
	case protocol.TypeUpdate:
		ctl.handleUpdate(id, data)
	case protocol.TypeJoinRoom:
		ctl.handleJoinRoom(id, data)
	case protocol.TypeLeaveRoom:
		ctl.handleLeaveRoom(id)
	case protocol.TypeOffer, protocol.TypeAnswer, protocol.TypeICECandidate:
		ctl.handleRelay(id, data)
	case protocol.TypePing:
		ctl.handlePing(id)
	default:
		ctl.Orch.Metrics.MessageReceived("unknown")
		log.Warn().Str("module", "signal").Str("cid", string(id)).Str("type", env.Type).Msg("unknown signal")
		return
	}
	ctl.Orch.Metrics.MessageReceived(env.Type)
}

func (ctl *SignalWSController) malformed(id domain.ClientID, typ string, err error) {
	ctl.Orch.Metrics.Dropped(metrics.DropMalformed, 1)
	log.Debug().Err(err).Str("module", "signal").Str("cid", string(id)).Str("type", typ).Msg("bad payload")
}
