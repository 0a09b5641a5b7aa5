package signal

import (
	"encoding/json"

	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(id domain.ClientID, data []byte) {
	var p protocol.JoinDocument
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.malformed(id, protocol.TypeJoin, err)
		return
	}
	if err := ctl.Orch.JoinDocument(id, p.DocumentID); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(id)).Msg("join dropped")
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(id)).Str("document_id", string(p.DocumentID)).Msg("join")
}

// handleUpdate forwards the frame exactly as received; only the envelope type
// was inspected.
func (ctl *SignalWSController) handleUpdate(id domain.ClientID, data []byte) {
	ctl.publish(id, core.Text(data))
}

func (ctl *SignalWSController) handleBinary(id domain.ClientID, data []byte) {
	ctl.publish(id, core.Binary(data))
}

func (ctl *SignalWSController) publish(id domain.ClientID, f core.Frame) {
	res, err := ctl.Orch.PublishDocument(id, f)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(id)).Str("kind", f.Kind.String()).Msg("update dropped")
		return
	}
	log.Trace().Str("module", "signal").Str("cid", string(id)).Int("sent", res.SendTo).Int("dropped", len(res.Dropped)).Msg("update")
}
