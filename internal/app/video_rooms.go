package app

import (
	"sort"
	"sync"

	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/dkeye/livedocs/internal/protocol"
	"github.com/rs/zerolog/log"
)

// VideoRooms maps a call id to its participants and their display names.
type VideoRooms struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.MemberSet
}

func NewVideoRooms() *VideoRooms {
	return &VideoRooms{rooms: make(map[domain.RoomID]*core.MemberSet)}
}

// Join adds m to room and returns the members that were already there, so
// the joiner knows whom to offer a peer connection. The existing members get
// a user-joined event.
func (t *VideoRooms) Join(room domain.RoomID, m core.Member) ([]core.Member, core.PublishResult) {
	t.mu.Lock()
	set, ok := t.rooms[room]
	if !ok {
		set = core.NewMemberSet()
		t.rooms[room] = set
	}
	snapshot := set.Snapshot(m.ID)
	set.Add(m)
	t.mu.Unlock()

	log.Info().Str("module", "app.video").Str("room_id", string(room)).Str("cid", string(m.ID)).Int("members", set.Len()).Msg("joined room")

	res, err := t.broadcastOn(set, m.ID, protocol.NewUserJoined(room, m))
	if err != nil {
		log.Error().Err(err).Str("module", "app.video").Msg("encode user-joined")
	}
	return snapshot, res
}

// Leave removes id from room and tells the remaining members. Leaving a room
// one is not in is a no-op and reports ok=false.
func (t *VideoRooms) Leave(room domain.RoomID, id domain.ClientID) (res core.PublishResult, ok bool) {
	t.mu.Lock()
	set, exists := t.rooms[room]
	if !exists || !set.Remove(id) {
		t.mu.Unlock()
		return core.PublishResult{}, false
	}
	empty := set.Len() == 0
	if empty {
		delete(t.rooms, room)
	}
	t.mu.Unlock()

	if empty {
		log.Info().Str("module", "app.video").Str("room_id", string(room)).Msg("room removed")
		return core.PublishResult{}, true
	}
	log.Info().Str("module", "app.video").Str("room_id", string(room)).Str("cid", string(id)).Int("members", set.Len()).Msg("left room")

	res, err := t.broadcastOn(set, id, protocol.NewUserLeft(room, id))
	if err != nil {
		log.Error().Err(err).Str("module", "app.video").Msg("encode user-left")
	}
	return res, true
}

// Broadcast encodes v and sends it to every member of room except from.
func (t *VideoRooms) Broadcast(room domain.RoomID, from domain.ClientID, v any) (core.PublishResult, error) {
	t.mu.RLock()
	set, ok := t.rooms[room]
	t.mu.RUnlock()
	if !ok {
		return core.PublishResult{}, nil
	}
	return t.broadcastOn(set, from, v)
}

func (t *VideoRooms) broadcastOn(set *core.MemberSet, from domain.ClientID, v any) (core.PublishResult, error) {
	f, err := protocol.Encode(v)
	if err != nil {
		return core.PublishResult{}, err
	}
	return set.Broadcast(from, f), nil
}

// Participants returns the presence snapshot of room in join order.
func (t *VideoRooms) Participants(room domain.RoomID) ([]core.ParticipantDTO, bool) {
	t.mu.RLock()
	set, ok := t.rooms[room]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}
	members := set.Snapshot("")
	out := make([]core.ParticipantDTO, 0, len(members))
	for _, m := range members {
		out = append(out, m.Participant())
	}
	return out, true
}

func (t *VideoRooms) Members(room domain.RoomID) []domain.ClientID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if set, ok := t.rooms[room]; ok {
		return set.IDs()
	}
	return nil
}

func (t *VideoRooms) Exists(room domain.RoomID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rooms[room]
	return ok
}

func (t *VideoRooms) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}

func (t *VideoRooms) List() []core.RoomInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(t.rooms))
	for id, set := range t.rooms {
		out = append(out, core.RoomInfo{ID: string(id), MemberCount: set.Len()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
