// Package session owns the client's tab state: the ordered set of open
// rooms, the active room and the per-room unread flags.
package session

import (
	"sync"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// Manager is the sole owner of tab state. Remote state never removes a tab;
// only explicit user close actions do.
//
// Invariants, restored after every operation:
//   - the active room id, if set, references an open tab;
//   - the unread set never contains the active room id.
type Manager struct {
	mu       sync.Mutex
	self     types.User
	tabs     []types.ChatRoom
	activeID string
	unread   map[string]struct{}
}

// New instantiates a manager for the given user.
func New(self types.User) *Manager {
	return &Manager{
		self:   self,
		unread: map[string]struct{}{},
	}
}

// Self returns the user this session belongs to.
func (m *Manager) Self() types.User { return m.self }

// OpenRoom opens a tab for the room and focuses it. Idempotent: if a tab
// with the same id is already open, only focus moves.
func (m *Manager) OpenRoom(room types.ChatRoom) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isOpenLocked(room.ID) {
		m.tabs = append(m.tabs, room)
	}
	m.focusLocked(room.ID)
}

// OpenRoomBackground opens a tab without stealing focus. Used by the
// reconciler to materialize private conversation tabs.
func (m *Manager) OpenRoomBackground(room types.ChatRoom) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isOpenLocked(room.ID) {
		m.tabs = append(m.tabs, room)
	}
}

// CloseTab removes the tab. If it was active, the new last tab in sequence
// order becomes active, or none if no tabs remain. Any unread flag for the
// room is cleared.
func (m *Manager) CloseTab(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tabs := m.tabs[:0]
	for _, tab := range m.tabs {
		if tab.ID != roomID {
			tabs = append(tabs, tab)
		}
	}
	m.tabs = tabs
	delete(m.unread, roomID)
	if m.activeID == roomID {
		m.activeID = ""
		if len(m.tabs) > 0 {
			m.activeID = m.tabs[len(m.tabs)-1].ID
			delete(m.unread, m.activeID)
		}
	}
}

// Focus makes the given open tab active and clears its unread flag. Unknown
// room ids are ignored.
func (m *Manager) Focus(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focusLocked(roomID)
}

func (m *Manager) focusLocked(roomID string) {
	if !m.isOpenLocked(roomID) {
		return
	}
	m.activeID = roomID
	delete(m.unread, roomID)
}

// MarkUnread flags an open, non-active room as having unseen activity.
func (m *Manager) MarkUnread(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if roomID == m.activeID || !m.isOpenLocked(roomID) {
		return
	}
	m.unread[roomID] = struct{}{}
}

// DerivePrivateRoom returns the private room between this session's user and
// the peer, opening and focusing its tab. An already open tab is reused.
func (m *Manager) DerivePrivateRoom(peer types.User) types.ChatRoom {
	m.mu.Lock()
	defer m.mu.Unlock()
	roomID := types.PrivateRoomID(m.self.ID, peer.ID)
	for _, tab := range m.tabs {
		if tab.ID == roomID {
			m.focusLocked(roomID)
			return tab
		}
	}
	room := types.NewPrivateRoom(m.self.ID, peer)
	m.tabs = append(m.tabs, room)
	m.focusLocked(room.ID)
	return room
}

// ActiveRoom returns the active room, if any.
func (m *Manager) ActiveRoom() (types.ChatRoom, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tab := range m.tabs {
		if tab.ID == m.activeID {
			return tab, true
		}
	}
	return types.ChatRoom{}, false
}

// ActiveRoomID returns the active room id, or "" if none.
func (m *Manager) ActiveRoomID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Tabs returns the open tabs in insertion order.
func (m *Manager) Tabs() []types.ChatRoom {
	m.mu.Lock()
	defer m.mu.Unlock()
	tabs := make([]types.ChatRoom, len(m.tabs))
	copy(tabs, m.tabs)
	return tabs
}

// IsOpen reports whether a tab exists for the room.
func (m *Manager) IsOpen(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isOpenLocked(roomID)
}

// IsUnread reports whether the room is flagged unread.
func (m *Manager) IsUnread(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.unread[roomID]
	return ok
}

func (m *Manager) isOpenLocked(roomID string) bool {
	for _, tab := range m.tabs {
		if tab.ID == roomID {
			return true
		}
	}
	return false
}
