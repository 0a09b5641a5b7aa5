package core

import "github.com/dkeye/livedocs/internal/domain"

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Skipped int // members whose transport was already closed
	Dropped []Member
}

// RoomInfo is a read-only view for APIs (no transport fields).
type RoomInfo struct {
	ID          string `json:"id"`
	MemberCount int    `json:"memberCount"`
}

// ParticipantDTO is the wire view of a video-room member.
type ParticipantDTO struct {
	ClientID    domain.ClientID `json:"clientId"`
	DisplayName *string         `json:"displayName"`
}

func (m Member) Participant() ParticipantDTO {
	p := ParticipantDTO{ClientID: m.ID}
	if m.DisplayName != "" {
		name := m.DisplayName
		p.DisplayName = &name
	}
	return p
}
