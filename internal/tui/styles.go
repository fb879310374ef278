package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	textareaHeight    = 3
	inputBorderHeight = 2
	headerHeight      = 1
	tabBarHeight      = 1
	helpHeight        = 1
	minViewportHeight = 1
)

// Color palette
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	accentColor  = lipgloss.Color("#06B6D4") // Cyan
	selfColor    = lipgloss.Color("#10B981") // Green
	botColor     = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
	textColor    = lipgloss.Color("#F9FAFB")
	dimColor     = lipgloss.Color("#9CA3AF")
	unreadColor  = lipgloss.Color("#F472B6") // Pink
	borderColor  = lipgloss.Color("#4B5563")
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(textColor).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(dimColor).
				Padding(0, 1)

	unreadTabStyle = lipgloss.NewStyle().
			Foreground(unreadColor).
			Bold(true).
			Padding(0, 1)

	selfLabelStyle = lipgloss.NewStyle().
			Foreground(selfColor).
			Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(botColor).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	messageStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(2)

	attachmentStyle = lipgloss.NewStyle().
			Foreground(unreadColor).
			Italic(true).
			PaddingLeft(2)

	typingStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	textAreaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)
