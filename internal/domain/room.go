package domain

import "errors"

const MaxRoomIDLen = 256

var (
	ErrEmptyRoomID   = errors.New("room id empty")
	ErrRoomIDTooLong = errors.New("room id too long")
)

type (
	// DocumentID is the caller-supplied name of a document room.
	DocumentID string
	// RoomID is the caller-supplied name of a video room.
	RoomID string
)

func ValidateRoomKey(id string) error {
	if id == "" {
		return ErrEmptyRoomID
	}
	if len(id) > MaxRoomIDLen {
		return ErrRoomIDTooLong
	}
	return nil
}
