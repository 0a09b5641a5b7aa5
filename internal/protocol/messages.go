// Package protocol defines the JSON envelopes exchanged with browser clients.
//
// Only the routing fields are decoded. Editor content and SDP/ICE payloads stay
// as raw bytes and are forwarded unchanged.
package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/domain"
)

const (
	TypeWelcome      = "welcome"
	TypeJoin         = "join"
	TypeUpdate       = "update"
	TypeJoinRoom     = "join-room"
	TypeLeaveRoom    = "leave-room"
	TypeParticipants = "participants"
	TypeUserJoined   = "user-joined"
	TypeUserLeft     = "user-left"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"
	TypePing         = "ping"
	TypePong         = "pong"
)

// IsRelayType reports whether typ is a point-to-point signaling message.
func IsRelayType(typ string) bool {
	switch typ {
	case TypeOffer, TypeAnswer, TypeICECandidate:
		return true
	}
	return false
}

// Envelope is the discriminator every text message carries.
type Envelope struct {
	Type string `json:"type"`
}

// ParseEnvelope decodes the type of a text frame.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(data, &env)
	return env, err
}

// Client -> server.

type JoinDocument struct {
	DocumentID domain.DocumentID `json:"documentId"`
}

type JoinRoom struct {
	RoomID      domain.RoomID `json:"roomId"`
	DisplayName string        `json:"displayName"`
}

type RelayRequest struct {
	Type           string          `json:"type"`
	TargetClientID domain.ClientID `json:"targetClientId"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Server -> client.

type Welcome struct {
	Type     string          `json:"type"`
	ClientID domain.ClientID `json:"clientId"`
}

type Participants struct {
	Type         string                `json:"type"`
	RoomID       domain.RoomID         `json:"roomId"`
	Participants []core.ParticipantDTO `json:"participants"`
}

type UserJoined struct {
	Type        string              `json:"type"`
	RoomID      domain.RoomID       `json:"roomId"`
	Participant core.ParticipantDTO `json:"participant"`
}

type UserLeft struct {
	Type     string          `json:"type"`
	RoomID   domain.RoomID   `json:"roomId"`
	ClientID domain.ClientID `json:"clientId"`
}

type RelayedSignal struct {
	Type         string          `json:"type"`
	FromClientID domain.ClientID `json:"fromClientId"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

type Pong struct {
	Type string `json:"type"`
}

func NewWelcome(id domain.ClientID) Welcome {
	return Welcome{Type: TypeWelcome, ClientID: id}
}

func NewParticipants(room domain.RoomID, members []core.Member) Participants {
	list := make([]core.ParticipantDTO, 0, len(members))
	for _, m := range members {
		list = append(list, m.Participant())
	}
	return Participants{Type: TypeParticipants, RoomID: room, Participants: list}
}

func NewUserJoined(room domain.RoomID, m core.Member) UserJoined {
	return UserJoined{Type: TypeUserJoined, RoomID: room, Participant: m.Participant()}
}

func NewUserLeft(room domain.RoomID, id domain.ClientID) UserLeft {
	return UserLeft{Type: TypeUserLeft, RoomID: room, ClientID: id}
}

func NewRelayedSignal(typ string, from domain.ClientID, payload json.RawMessage) RelayedSignal {
	return RelayedSignal{Type: typ, FromClientID: from, Payload: payload}
}

// Encode marshals v into a text frame. HTML escaping is off so relayed SDP
// keeps its original characters.
func Encode(v any) (core.Frame, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return core.Frame{}, err
	}
	return core.Text(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
