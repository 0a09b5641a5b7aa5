package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/livedocs/internal/core/coretest"
	"github.com/dkeye/livedocs/internal/domain"
)

func TestRegistryRegisterResolveUnregister(t *testing.T) {
	reg := NewRegistry()
	conn := coretest.NewFakeConn()

	id := reg.Register(conn)
	require.NotEmpty(t, id)

	got, ok := reg.Resolve(id)
	require.True(t, ok)
	assert.Same(t, conn, got)
	assert.Equal(t, 1, reg.Count())

	assert.True(t, reg.Unregister(id))
	_, ok = reg.Resolve(id)
	assert.False(t, ok)
	assert.False(t, reg.Unregister(id))
	assert.Equal(t, 0, reg.Count())
}

func TestRegistrySkipsIDsInUse(t *testing.T) {
	reg := NewRegistry()
	ids := []domain.ClientID{"same", "same", "", "other"}
	reg.newID = func() domain.ClientID {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first := reg.Register(coretest.NewFakeConn())
	second := reg.Register(coretest.NewFakeConn())

	assert.Equal(t, domain.ClientID("same"), first)
	assert.Equal(t, domain.ClientID("other"), second)
}

func TestRegistryRoomBookkeeping(t *testing.T) {
	reg := NewRegistry()
	id := reg.Register(coretest.NewFakeConn())

	require.NoError(t, reg.SetDocument(id, "doc1"))
	require.NoError(t, reg.SetRoom(id, "r1", "Alice"))

	s, ok := reg.Get(id)
	require.True(t, ok)
	assert.True(t, s.InDocument())
	assert.True(t, s.InRoom())
	assert.Equal(t, domain.DocumentID("doc1"), s.Document)
	assert.Equal(t, domain.RoomID("r1"), s.Room)
	assert.Equal(t, "Alice", s.DisplayName)
	assert.False(t, s.ConnectedAt.IsZero())

	require.NoError(t, reg.ClearDocument(id))
	require.NoError(t, reg.ClearRoom(id))
	s, _ = reg.Get(id)
	assert.False(t, s.InDocument())
	assert.False(t, s.InRoom())

	assert.ErrorIs(t, reg.SetDocument("missing", "doc1"), ErrClientNotFound)
}
