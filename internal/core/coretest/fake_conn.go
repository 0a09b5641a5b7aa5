// Package coretest provides in-memory transports for tests.
package coretest

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/livedocs/internal/core"
)

// FakeConn records every frame sent to it.
type FakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func NewFakeConn() *FakeConn { return &FakeConn{} }

func (c *FakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	data := append([]byte(nil), f.Data...)
	c.frames = append(c.frames, core.Frame{Kind: f.Kind, Data: data})
	return nil
}

func (c *FakeConn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *FakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// SetFull makes every following TrySend report backpressure.
func (c *FakeConn) SetFull(full bool) {
	c.mu.Lock()
	c.full = full
	c.mu.Unlock()
}

func (c *FakeConn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}

func (c *FakeConn) Reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}

// Messages decodes every text frame into a generic map.
func (c *FakeConn) Messages() []map[string]any {
	var out []map[string]any
	for _, f := range c.Frames() {
		if f.Kind != core.TextFrame {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(f.Data, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// OfType returns decoded text messages whose "type" equals typ.
func (c *FakeConn) OfType(typ string) []map[string]any {
	var out []map[string]any
	for _, m := range c.Messages() {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}
