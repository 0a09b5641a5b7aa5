package app

import (
	"sort"
	"sync"

	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/rs/zerolog/log"
)

// DocumentRooms maps a document id to the connections editing it. Rooms are
// created on first join and removed as soon as they are empty.
type DocumentRooms struct {
	mu    sync.RWMutex
	rooms map[domain.DocumentID]*core.MemberSet
}

func NewDocumentRooms() *DocumentRooms {
	return &DocumentRooms{rooms: make(map[domain.DocumentID]*core.MemberSet)}
}

func (t *DocumentRooms) Join(doc domain.DocumentID, m core.Member) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.rooms[doc]
	if !ok {
		set = core.NewMemberSet()
		t.rooms[doc] = set
	}
	set.Add(m)
	log.Info().Str("module", "app.documents").Str("document_id", string(doc)).Str("cid", string(m.ID)).Int("members", set.Len()).Msg("joined document")
}

// Leave removes id from doc and reports whether it was a member.
func (t *DocumentRooms) Leave(doc domain.DocumentID, id domain.ClientID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.rooms[doc]
	if !ok || !set.Remove(id) {
		return false
	}
	if set.Len() == 0 {
		delete(t.rooms, doc)
		log.Info().Str("module", "app.documents").Str("document_id", string(doc)).Msg("document removed")
	} else {
		log.Info().Str("module", "app.documents").Str("document_id", string(doc)).Str("cid", string(id)).Int("members", set.Len()).Msg("left document")
	}
	return true
}

// Broadcast fans f out to every member of doc except from. ok is false when
// the room does not exist.
func (t *DocumentRooms) Broadcast(doc domain.DocumentID, from domain.ClientID, f core.Frame) (res core.PublishResult, ok bool) {
	t.mu.RLock()
	set, ok := t.rooms[doc]
	t.mu.RUnlock()
	if !ok {
		return core.PublishResult{}, false
	}
	res = set.Broadcast(from, f)
	log.Debug().Str("module", "app.documents").Str("document_id", string(doc)).Str("from", string(from)).Str("kind", f.Kind.String()).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res, true
}

// Members returns the ids in doc, or nil when the room does not exist.
func (t *DocumentRooms) Members(doc domain.DocumentID) []domain.ClientID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if set, ok := t.rooms[doc]; ok {
		return set.IDs()
	}
	return nil
}

func (t *DocumentRooms) Exists(doc domain.DocumentID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rooms[doc]
	return ok
}

func (t *DocumentRooms) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}

func (t *DocumentRooms) List() []core.RoomInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(t.rooms))
	for id, set := range t.rooms {
		out = append(out, core.RoomInfo{ID: string(id), MemberCount: set.Len()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
