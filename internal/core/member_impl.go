package core

import "github.com/dkeye/livedocs/internal/domain"

// Member pairs a client id with its transport endpoint and presence meta.
// This is what a room stores and fans out to.
type Member struct {
	ID          domain.ClientID
	Signal      SignalConnection
	DisplayName string
}

func NewMember(id domain.ClientID, sig SignalConnection, displayName string) Member {
	return Member{ID: id, Signal: sig, DisplayName: displayName}
}
