package core

import (
	"time"

	"github.com/dkeye/livedocs/internal/domain"
)

// Session is a read-only copy of a registry entry. Document and Room are
// empty when the connection is not in a room of that kind.
type Session struct {
	ID          domain.ClientID
	Signal      SignalConnection
	DisplayName string
	Document    domain.DocumentID
	Room        domain.RoomID
	ConnectedAt time.Time
}

func (s Session) InDocument() bool { return s.Document != "" }
func (s Session) InRoom() bool     { return s.Room != "" }
