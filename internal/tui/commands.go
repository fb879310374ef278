package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/volkanakbulut73/sohbetchat3/internal/registry"
	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// Messages flowing through the Bubble Tea loop.
type (
	// roomChangedMsg signals that a room's message log changed.
	roomChangedMsg struct{ roomID string }
	// roomWatchedMsg signals that the room listener switched rooms.
	roomWatchedMsg struct{ roomID string }
	// typingMsg toggles the bot typing indicator.
	typingMsg struct{ active bool }
	// usersLoadedMsg delivers the known participants.
	usersLoadedMsg struct{ users []types.User }
	// errMsg surfaces a background failure.
	errMsg struct{ err error }
)

// startup opens the global private-message listener and watches the initial
// room.
func (m *Model) startup() tea.Cmd {
	roomID := m.session.ActiveRoomID()
	m.switching = true
	return func() tea.Msg {
		m.reconciler.StartGlobal(m.ctx)
		m.reconciler.WatchRoom(m.ctx, roomID)
		return roomWatchedMsg{roomID: roomID}
	}
}

// loadUsers fetches the registered humans so private conversations can be
// started by name.
func (m *Model) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.backend.ListUsers(m.ctx)
		if err != nil {
			return errMsg{err: errors.Wrap(err, "listing users")}
		}
		return usersLoadedMsg{users: users}
	}
}

// watchRoom repoints the room listener. Serialized through m.switching.
func (m *Model) watchRoom(roomID string) tea.Cmd {
	m.switching = true
	return func() tea.Msg {
		m.reconciler.WatchRoom(m.ctx, roomID)
		return roomWatchedMsg{roomID: roomID}
	}
}

// sendMessage publishes the textarea content to the active room, then runs
// the bot generation turn. Bot replies come back through the event stream
// like any other message.
func (m *Model) sendMessage() tea.Cmd {
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" {
		return nil
	}
	room, ok := m.session.ActiveRoom()
	if !ok {
		return nil
	}
	self := m.session.Self()
	m.history.Add(text)
	m.historyNavigating = false
	m.textarea.Reset()
	m.err = nil

	return func() tea.Msg {
		message := types.Message{
			SenderID:     self.ID,
			SenderName:   self.Name,
			SenderAvatar: self.Avatar,
			Text:         text,
			Timestamp:    time.Now(),
			IsUser:       true,
		}
		published, err := m.backend.CreateMessage(m.ctx, room.ID, message)
		if err != nil {
			return errMsg{err: errors.Wrap(err, "publishing message")}
		}

		// The published message may not have echoed back through the event
		// stream yet, so make sure the generation context includes it.
		messages := m.reconciler.Messages(room.ID)
		if !containsMessage(messages, published.ID) {
			messages = append(messages, published)
		}
		m.orchestrator.Respond(m.ctx, room, messages, self)
		return nil
	}
}

func containsMessage(messages []types.Message, id string) bool {
	for _, message := range messages {
		if message.ID == id {
			return true
		}
	}
	return false
}

// runCommand executes a slash command typed into the input.
//
//	/msg <name>   open a private conversation with a user or bot
//	/join <room>  open a public room
//	/close        close the active tab
func (m *Model) runCommand(input string) tea.Cmd {
	if m.switching {
		// A room switch is in flight; leave the command in the input so the
		// user can resubmit once it lands.
		return nil
	}
	m.textarea.Reset()
	m.err = nil

	name, argument, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	argument = strings.TrimSpace(argument)
	switch strings.ToLower(name) {
	case "msg":
		peer, ok := m.findUser(argument)
		if !ok {
			m.err = errors.Errorf("no user named %q", argument)
			return nil
		}
		room := m.session.DerivePrivateRoom(peer)
		return m.watchRoom(room.ID)

	case "join":
		room, ok := findRoom(argument)
		if !ok {
			m.err = errors.Errorf("no room named %q", argument)
			return nil
		}
		m.session.OpenRoom(room)
		return m.watchRoom(room.ID)

	case "close":
		return m.closeActiveTab()

	default:
		m.err = errors.Errorf("unknown command /%s", name)
		return nil
	}
}

// closeActiveTab closes the focused tab and rewatches whichever room gains
// focus. The last tab stays open.
func (m *Model) closeActiveTab() tea.Cmd {
	if len(m.session.Tabs()) <= 1 {
		return nil
	}
	m.session.CloseTab(m.session.ActiveRoomID())
	return m.watchRoom(m.session.ActiveRoomID())
}

// cycleTab moves focus by delta through the open tabs and rewatches the
// newly focused room.
func (m *Model) cycleTab(delta int) tea.Cmd {
	tabs := m.session.Tabs()
	if len(tabs) < 2 {
		return nil
	}
	active := m.session.ActiveRoomID()
	for i, tab := range tabs {
		if tab.ID == active {
			next := tabs[(i+delta+len(tabs))%len(tabs)]
			m.session.Focus(next.ID)
			return m.watchRoom(next.ID)
		}
	}
	return nil
}

// findUser resolves a /msg target among the registry bots and the fetched
// humans, matching id, exact name, then name prefix, case-insensitively.
func (m *Model) findUser(query string) (types.User, bool) {
	if query == "" {
		return types.User{}, false
	}
	self := m.session.Self()
	candidates := make([]types.User, 0, len(registry.Bots)+len(m.users))
	candidates = append(candidates, registry.Bots...)
	for _, user := range m.users {
		if user.ID != self.ID {
			candidates = append(candidates, user)
		}
	}

	query = strings.ToLower(query)
	for _, user := range candidates {
		if strings.ToLower(user.ID) == query || strings.ToLower(user.Name) == query {
			return user, true
		}
	}
	for _, user := range candidates {
		if strings.HasPrefix(strings.ToLower(user.Name), query) {
			return user, true
		}
	}
	return types.User{}, false
}

// findRoom resolves a /join target among the public rooms by id, exact name,
// then name prefix, case-insensitively.
func findRoom(query string) (types.ChatRoom, bool) {
	if query == "" {
		return types.ChatRoom{}, false
	}
	query = strings.ToLower(query)
	for _, room := range registry.Rooms {
		if strings.ToLower(room.ID) == query || strings.ToLower(room.Name) == query {
			return room, true
		}
	}
	for _, room := range registry.Rooms {
		if strings.HasPrefix(strings.ToLower(room.Name), query) {
			return room, true
		}
	}
	return types.ChatRoom{}, false
}
