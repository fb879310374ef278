package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "alt+p":
			if entry, ok := m.history.Previous(m.textarea.Value()); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
			}
			return m, nil
		case "alt+n":
			if entry, ok := m.history.Next(); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
			}
			return m, nil
		}

		if m.historyNavigating {
			switch msg.Type {
			case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
				m.history.Reset()
				m.historyNavigating = false
			}
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.reconciler.UnwatchRoom()
			m.reconciler.StopGlobal()
			return m, tea.Quit

		case tea.KeyTab:
			if !m.switching {
				return m, m.cycleTab(1)
			}
			return m, nil

		case tea.KeyShiftTab:
			if !m.switching {
				return m, m.cycleTab(-1)
			}
			return m, nil

		case tea.KeyCtrlW:
			if !m.switching {
				return m, m.closeActiveTab()
			}
			return m, nil

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m, m.runCommand(input)
			}
			return m, m.sendMessage()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()

	case roomWatchedMsg:
		m.switching = false
		m.refreshTranscript(true)
		return m, nil

	case roomChangedMsg:
		if msg.roomID == m.session.ActiveRoomID() {
			m.refreshTranscript(false)
		}
		return m, nil

	case typingMsg:
		m.typing = msg.active
		if m.typing {
			cmds = append(cmds, m.spinner.Tick)
		}

	case usersLoadedMsg:
		m.users = msg.users
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	// The textarea owns the keyboard while typing; the viewport only sees
	// explicit scroll keys, so vim-style bindings don't fire mid-sentence.
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	default:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// refreshTranscript re-renders the active room into the viewport. Sticks to
// the bottom unless the user scrolled away, or always when forced on a room
// switch.
func (m *Model) refreshTranscript(force bool) {
	if !m.ready {
		return
	}
	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if force || wasAtBottom {
		m.viewport.GotoBottom()
	}
}

// recalculateLayout adjusts viewport and textarea dimensions.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	viewportHeight := m.height - headerHeight - tabBarHeight - textareaHeight - inputBorderHeight - helpHeight
	if viewportHeight < minViewportHeight {
		viewportHeight = minViewportHeight
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, viewportHeight)
		m.ready = true
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
		m.viewport.SetContent(m.renderMessages())
	}

	m.textarea.SetWidth(m.width - textAreaStyle.GetHorizontalBorderSize())
}
