package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

var (
	self  = types.User{ID: "alice", Name: "Alice"}
	peer  = types.User{ID: "bob", Name: "Bob"}
	roomA = types.ChatRoom{ID: "room_a", Name: "A"}
	roomB = types.ChatRoom{ID: "room_b", Name: "B"}
	roomC = types.ChatRoom{ID: "room_c", Name: "C"}
)

func TestOpenRoomIdempotent(t *testing.T) {
	t.Parallel()
	m := New(self)

	m.OpenRoom(roomA)
	m.OpenRoom(roomB)
	m.OpenRoom(roomA) // reopening only switches focus

	require.Len(t, m.Tabs(), 2)
	assert.Equal(t, "room_a", m.ActiveRoomID())
}

func TestCloseTab(t *testing.T) {
	t.Parallel()
	m := New(self)
	m.OpenRoom(roomA)
	m.OpenRoom(roomB)
	m.OpenRoom(roomC)

	// Closing the active tab activates the new last tab.
	m.CloseTab(roomC.ID)
	assert.Equal(t, "room_b", m.ActiveRoomID())

	// Closing an inactive tab leaves focus alone.
	m.CloseTab(roomA.ID)
	assert.Equal(t, "room_b", m.ActiveRoomID())

	// Closing the only tab leaves no active tab.
	m.CloseTab(roomB.ID)
	assert.Empty(t, m.ActiveRoomID())
	assert.Empty(t, m.Tabs())
}

func TestCloseTabClearsUnread(t *testing.T) {
	t.Parallel()
	m := New(self)
	m.OpenRoom(roomA)
	m.OpenRoomBackground(roomB)
	m.MarkUnread(roomB.ID)
	require.True(t, m.IsUnread(roomB.ID))

	m.CloseTab(roomB.ID)
	assert.False(t, m.IsUnread(roomB.ID))
}

func TestUnreadNeverContainsActive(t *testing.T) {
	t.Parallel()
	m := New(self)
	m.OpenRoom(roomA)
	m.OpenRoomBackground(roomB)

	// Marking the active room is a no-op.
	m.MarkUnread(roomA.ID)
	assert.False(t, m.IsUnread(roomA.ID))

	m.MarkUnread(roomB.ID)
	require.True(t, m.IsUnread(roomB.ID))

	// Focusing clears the flag.
	m.Focus(roomB.ID)
	assert.False(t, m.IsUnread(roomB.ID))
	assert.Equal(t, "room_b", m.ActiveRoomID())

	// Closing the active tab must not leave the newly-active room unread.
	m.MarkUnread(roomA.ID)
	m.CloseTab(roomB.ID)
	assert.Equal(t, "room_a", m.ActiveRoomID())
	assert.False(t, m.IsUnread(roomA.ID))
}

func TestMarkUnreadRequiresOpenTab(t *testing.T) {
	t.Parallel()
	m := New(self)
	m.OpenRoom(roomA)

	m.MarkUnread("room_ghost")
	assert.False(t, m.IsUnread("room_ghost"))
}

func TestFocusUnknownRoomIgnored(t *testing.T) {
	t.Parallel()
	m := New(self)
	m.OpenRoom(roomA)

	m.Focus("room_ghost")
	assert.Equal(t, "room_a", m.ActiveRoomID())
}

func TestDerivePrivateRoom(t *testing.T) {
	t.Parallel()
	m := New(self)
	m.OpenRoom(roomA)

	room := m.DerivePrivateRoom(peer)
	require.True(t, room.IsPrivate)
	assert.Equal(t, types.PrivateRoomID("alice", "bob"), room.ID)
	assert.Equal(t, room.ID, m.ActiveRoomID())

	// Deriving again reuses the open tab.
	m.Focus(roomA.ID)
	again := m.DerivePrivateRoom(peer)
	assert.Equal(t, room.ID, again.ID)
	assert.Len(t, m.Tabs(), 2)
	assert.Equal(t, room.ID, m.ActiveRoomID())
}

func TestOpenRoomBackgroundKeepsFocus(t *testing.T) {
	t.Parallel()
	m := New(self)
	m.OpenRoom(roomA)

	m.OpenRoomBackground(roomB)
	assert.Equal(t, "room_a", m.ActiveRoomID())
	assert.True(t, m.IsOpen(roomB.ID))
}
