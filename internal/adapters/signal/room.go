package signal

import (
	"encoding/json"

	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoinRoom(id domain.ClientID, data []byte) {
	var p protocol.JoinRoom
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.malformed(id, protocol.TypeJoinRoom, err)
		return
	}
	if _, err := ctl.Orch.JoinRoom(id, p.RoomID, p.DisplayName); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(id)).Msg("join-room dropped")
	}
}

// handleLeaveRoom leaves the current video room; the connection stays open.
func (ctl *SignalWSController) handleLeaveRoom(id domain.ClientID) {
	if err := ctl.Orch.LeaveRoom(id); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(id)).Msg("leave-room dropped")
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(id)).Msg("leave")
}
