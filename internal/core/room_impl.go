package core

import (
	"errors"
	"sort"
	"sync"

	"github.com/dkeye/livedocs/internal/domain"
)

// MemberSet is a threadsafe in-memory member set shared by both room kinds.
// It never closes adapter-owned resources.
type MemberSet struct {
	mu    sync.RWMutex
	byID  map[domain.ClientID]Member
	order []domain.ClientID
}

func NewMemberSet() *MemberSet {
	return &MemberSet{byID: make(map[domain.ClientID]Member)}
}

// Add inserts or replaces m. Join order is kept for stable snapshots.
func (s *MemberSet) Add(m Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.byID[m.ID] = m
}

// Remove deletes id and reports whether it was present.
func (s *MemberSet) Remove(id domain.ClientID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, cur := range s.order {
		if cur == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *MemberSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Snapshot returns members in join order, leaving out except.
func (s *MemberSet) Snapshot(except domain.ClientID) []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Member, 0, len(s.order))
	for _, id := range s.order {
		if id == except {
			continue
		}
		out = append(out, s.byID[id])
	}
	return out
}

// IDs returns the member ids sorted, for tests and introspection.
func (s *MemberSet) IDs() []domain.ClientID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ClientID, 0, len(s.byID))
	for id := range s.byID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Broadcast sends f to every member except from. Iteration runs over a
// snapshot, so a concurrent Add/Remove cannot disturb it.
func (s *MemberSet) Broadcast(from domain.ClientID, f Frame) PublishResult {
	res := PublishResult{}
	for _, m := range s.Snapshot(from) {
		if m.Signal == nil || !m.Signal.IsOpen() {
			res.Skipped++
			continue
		}
		if err := m.Signal.TrySend(f); err != nil {
			if errors.Is(err, ErrConnClosed) {
				res.Skipped++
				continue
			}
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	return res
}
