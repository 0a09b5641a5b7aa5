package app

import (
	"errors"
	"sync"
	"time"

	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrClientNotFound = errors.New("client not found")

// Registry is the connection registry: every live connection, keyed by the
// client id issued at connect time.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ClientID]*core.Session
	newID    func() domain.ClientID
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.ClientID]*core.Session),
		newID:    domain.NewClientID,
		now:      time.Now,
	}
}

// Register issues a fresh client id for sig. The id never collides with one
// held by a live connection.
func (r *Registry) Register(sig core.SignalConnection) domain.ClientID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	for {
		if _, taken := r.sessions[id]; !taken && id != "" {
			break
		}
		id = r.newID()
	}
	r.sessions[id] = &core.Session{ID: id, Signal: sig, ConnectedAt: r.now()}
	log.Debug().Str("module", "app.registry").Str("cid", string(id)).Msg("registered")
	return id
}

// Resolve looks up the transport of a live connection.
func (r *Registry) Resolve(id domain.ClientID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[id]; ok {
		return s.Signal, true
	}
	return nil, false
}

// Get returns a copy of the registry entry.
func (r *Registry) Get(id domain.ClientID) (core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[id]; ok {
		return *s, true
	}
	return core.Session{}, false
}

func (r *Registry) Unregister(id domain.ClientID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	log.Debug().Str("module", "app.registry").Str("cid", string(id)).Msg("unregistered")
	return true
}

func (r *Registry) SetDocument(id domain.ClientID, doc domain.DocumentID) error {
	return r.update(id, func(s *core.Session) { s.Document = doc })
}

func (r *Registry) ClearDocument(id domain.ClientID) error {
	return r.update(id, func(s *core.Session) { s.Document = "" })
}

func (r *Registry) SetRoom(id domain.ClientID, room domain.RoomID, displayName string) error {
	return r.update(id, func(s *core.Session) {
		s.Room = room
		s.DisplayName = displayName
	})
}

func (r *Registry) ClearRoom(id domain.ClientID) error {
	return r.update(id, func(s *core.Session) { s.Room = "" })
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) update(id domain.ClientID, fn func(*core.Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrClientNotFound
	}
	fn(s)
	return nil
}
