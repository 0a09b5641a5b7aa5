package signal

import (
	"encoding/json"

	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleRelay passes offers, answers and ICE candidates between peers. The
// server never looks inside the payload.
func (ctl *SignalWSController) handleRelay(id domain.ClientID, data []byte) {
	var p protocol.RelayRequest
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.malformed(id, p.Type, err)
		return
	}
	if err := ctl.Orch.Relay(id, p.Type, p.TargetClientID, p.Payload); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(id)).Str("type", p.Type).Msg("relay dropped")
	}
}
