package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/livedocs/internal/core"
	"github.com/dkeye/livedocs/internal/core/coretest"
	"github.com/dkeye/livedocs/internal/domain"
)

func TestDocumentRoomsBroadcastReachesOthersOnly(t *testing.T) {
	rooms := NewDocumentRooms()
	conns := map[domain.ClientID]*coretest.FakeConn{}
	for _, id := range []domain.ClientID{"a", "b", "c", "d"} {
		conns[id] = coretest.NewFakeConn()
		rooms.Join("doc1", core.NewMember(id, conns[id], ""))
	}

	payload := []byte(`{"type":"update","op":"insert","pos":0,"text":"hi"}`)
	res, ok := rooms.Broadcast("doc1", "a", core.Text(payload))
	require.True(t, ok)
	assert.Equal(t, 3, res.SendTo)

	assert.Empty(t, conns["a"].Frames())
	for _, id := range []domain.ClientID{"b", "c", "d"} {
		frames := conns[id].Frames()
		require.Len(t, frames, 1, string(id))
		assert.Equal(t, payload, frames[0].Data)
		assert.Equal(t, core.TextFrame, frames[0].Kind)
	}
}

func TestDocumentRoomsBroadcastUnknownRoom(t *testing.T) {
	rooms := NewDocumentRooms()
	_, ok := rooms.Broadcast("nope", "a", core.Text([]byte("x")))
	assert.False(t, ok)
}

func TestDocumentRoomsEmptyRoomIsRemoved(t *testing.T) {
	rooms := NewDocumentRooms()
	rooms.Join("doc1", core.NewMember("a", coretest.NewFakeConn(), ""))
	rooms.Join("doc1", core.NewMember("b", coretest.NewFakeConn(), ""))
	require.Equal(t, 1, rooms.Count())

	assert.True(t, rooms.Leave("doc1", "a"))
	assert.True(t, rooms.Exists("doc1"))
	assert.True(t, rooms.Leave("doc1", "b"))

	assert.False(t, rooms.Exists("doc1"))
	assert.Nil(t, rooms.Members("doc1"))
	assert.Equal(t, 0, rooms.Count())
	assert.Empty(t, rooms.List())
	assert.False(t, rooms.Leave("doc1", "b"))
}

// Membership after any sequence of joins and leaves equals the set of
// connections whose last operation was a join.
func TestDocumentRoomsMembershipFollowsLastOperation(t *testing.T) {
	type op struct {
		join bool
		id   domain.ClientID
	}
	ops := []op{
		{true, "a"}, {true, "b"}, {false, "a"}, {true, "c"}, {true, "a"},
		{false, "b"}, {false, "b"}, {true, "b"}, {false, "c"}, {true, "a"},
	}

	rooms := NewDocumentRooms()
	last := map[domain.ClientID]bool{}
	for _, o := range ops {
		if o.join {
			rooms.Join("doc", core.NewMember(o.id, coretest.NewFakeConn(), ""))
		} else {
			rooms.Leave("doc", o.id)
		}
		last[o.id] = o.join
	}

	var want []domain.ClientID
	for _, id := range []domain.ClientID{"a", "b", "c"} {
		if last[id] {
			want = append(want, id)
		}
	}
	assert.Equal(t, want, rooms.Members("doc"))
}

func TestDocumentRoomsList(t *testing.T) {
	rooms := NewDocumentRooms()
	rooms.Join("b", core.NewMember("1", coretest.NewFakeConn(), ""))
	rooms.Join("a", core.NewMember("1", coretest.NewFakeConn(), ""))
	rooms.Join("a", core.NewMember("2", coretest.NewFakeConn(), ""))

	assert.Equal(t, []core.RoomInfo{{ID: "a", MemberCount: 2}, {ID: "b", MemberCount: 1}}, rooms.List())
}
