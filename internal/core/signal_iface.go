package core

import "errors"

var (
	ErrConnClosed   = errors.New("connection closed")
	ErrBackpressure = errors.New("backpressure")
)

type FrameKind int

const (
	TextFrame FrameKind = iota
	BinaryFrame
)

func (k FrameKind) String() string {
	if k == BinaryFrame {
		return "binary"
	}
	return "text"
}

// Frame is one transport message. Kind is kept alongside the bytes so a relay
// never turns a binary payload into text or the other way round.
type Frame struct {
	Kind FrameKind
	Data []byte
}

func Text(data []byte) Frame   { return Frame{Kind: TextFrame, Data: data} }
func Binary(data []byte) Frame { return Frame{Kind: BinaryFrame, Data: data} }

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking. It returns ErrConnClosed when the
	// transport is gone and ErrBackpressure when the queue is full.
	TrySend(f Frame) error
	IsOpen() bool
	Close()
}
