package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(textAreaStyle.Render(m.textarea.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m *Model) renderTitle() string {
	room, ok := m.session.ActiveRoom()
	if !ok {
		return titleStyle.Width(m.width).Render(" 💬 sohbetchat ")
	}
	title := fmt.Sprintf(" 💬 %s │ %s │ 👤 %s ", room.Name, room.Topic, m.session.Self().Name)
	return titleStyle.Width(m.width).Render(title)
}

func (m *Model) renderTabs() string {
	active := m.session.ActiveRoomID()
	tabs := make([]string, 0, len(m.session.Tabs()))
	for _, tab := range m.session.Tabs() {
		label := tab.Name
		switch {
		case tab.ID == active:
			tabs = append(tabs, activeTabStyle.Render(label))
		case m.session.IsUnread(tab.ID):
			tabs = append(tabs, unreadTabStyle.Render("● "+label))
		default:
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.typing {
		return typingStyle.Render(fmt.Sprintf("%s yazıyor...", m.spinner.View()))
	}
	return helpStyle.Render("/msg <name> private chat │ /join <room> │ /close │ Tab switch")
}

func (m *Model) renderMessages() string {
	roomID := m.session.ActiveRoomID()
	messages := m.reconciler.Messages(roomID)
	if len(messages) == 0 {
		return helpStyle.Render("No messages yet.")
	}

	self := m.session.Self()
	width := m.viewport.Width
	var b strings.Builder
	for i, message := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(message, self, width))
	}
	return b.String()
}

func (m *Model) renderMessage(message types.Message, self types.User, width int) string {
	label := userLabelStyle
	switch {
	case message.SenderID == self.ID:
		label = selfLabelStyle
	case !message.IsUser:
		label = botLabelStyle
	}

	var b strings.Builder
	b.WriteString(label.Render(message.SenderName))
	b.WriteString(" ")
	b.WriteString(timestampStyle.Render(message.Timestamp.Local().Format("15:04")))
	b.WriteString("\n")
	if message.Image != "" {
		b.WriteString(attachmentStyle.Render("[RESİM]"))
		b.WriteString("\n")
	}
	if text := message.PlainText(); text != "" {
		b.WriteString(messageStyle.Width(width).Render(text))
		b.WriteString("\n")
	}
	return b.String()
}
