package orch

import (
	"fmt"

	"github.com/dkeye/livedocs/internal/app"
	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/rs/zerolog/log"
)

// JoinRoom puts id into the video room and replies with the participants that
// were already there. A connection is in at most one video room: any current
// room, including the same one, is left first so peers see user-left before
// the new user-joined.
func (o *Orchestrator) JoinRoom(id domain.ClientID, room domain.RoomID, displayName string) ([]core.ParticipantDTO, error) {
	if err := domain.ValidateRoomKey(string(room)); err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Registry.Get(id)
	if !ok {
		return nil, errClient(id)
	}
	if sess.InRoom() {
		log.Info().Str("module", "orch").Str("cid", string(id)).Str("from_room", string(sess.Room)).Msg("kicked from room")
		o.leaveRoomLocked(id, sess.Room)
	}

	name := domain.NormalizeDisplayName(displayName)
	_ = o.Registry.SetRoom(id, room, name)
	member := core.NewMember(id, sess.Signal, name)

	snapshot, res := o.Video.Join(room, member)
	o.publishResult(res)
	o.syncRoomGauges()

	reply := protocol.NewParticipants(room, snapshot)
	if err := o.sendLocked(id, sess.Signal, reply); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("cid", string(id)).Msg("participants not delivered")
	}
	log.Info().Str("module", "orch").Str("cid", string(id)).Str("room_id", string(room)).Int("participants", len(snapshot)).Msg("added to room")
	return reply.Participants, nil
}

// LeaveRoom takes id out of its current video room. Not being in one is fine.
func (o *Orchestrator) LeaveRoom(id domain.ClientID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Registry.Get(id)
	if !ok {
		return errClient(id)
	}
	if !sess.InRoom() {
		return nil
	}
	o.leaveRoomLocked(id, sess.Room)
	return nil
}

func (o *Orchestrator) leaveRoomLocked(id domain.ClientID, room domain.RoomID) {
	if res, ok := o.Video.Leave(room, id); ok {
		o.publishResult(res)
	}
	_ = o.Registry.ClearRoom(id)
	o.syncRoomGauges()
}

func errClient(id domain.ClientID) error {
	return fmt.Errorf("client %s: %w", id, app.ErrClientNotFound)
}
