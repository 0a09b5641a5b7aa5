package app

import (
	"fmt"

	"github.com/dkeye/livedocs/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose outbound queue is full.
type Policy interface {
	OnBackPressure(member core.Member) BackpressureAction
}

// DropPolicy loses the frame and keeps the member.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(core.Member) BackpressureAction { return DropFrame }

// KickPolicy closes the slow member's transport; normal disconnect cleanup
// follows from its read loop.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(core.Member) BackpressureAction { return KickMember }

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown slow consumer policy %q", name)
	}
}
