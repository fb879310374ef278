// Package tui implements the interactive chat surface. It composes the
// session manager, the reconciler and the orchestrator into a Bubble Tea
// program: one tab per open room, a transcript viewport and a message input.
package tui

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/volkanakbulut73/sohbetchat3/internal/configuration"
	"github.com/volkanakbulut73/sohbetchat3/internal/debug"
	"github.com/volkanakbulut73/sohbetchat3/internal/history"
	"github.com/volkanakbulut73/sohbetchat3/internal/llm"
	"github.com/volkanakbulut73/sohbetchat3/internal/orchestrator"
	"github.com/volkanakbulut73/sohbetchat3/internal/pocketbase"
	"github.com/volkanakbulut73/sohbetchat3/internal/reconciler"
	"github.com/volkanakbulut73/sohbetchat3/internal/registry"
	"github.com/volkanakbulut73/sohbetchat3/internal/session"
	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

var log = debug.GetLogger()

// Model is the Bubble Tea model for the chat surface.
type Model struct {
	// Core dependencies
	ctx          context.Context
	config       *configuration.Config
	backend      *pocketbase.Client
	session      *session.Manager
	reconciler   *reconciler.Reconciler
	orchestrator *orchestrator.Orchestrator

	// Known chat participants, for starting private conversations.
	users []types.User

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Input history
	history           *history.History
	historyNavigating bool

	// UI state
	width     int
	height    int
	ready     bool
	typing    bool
	switching bool
	quitting  bool
	err       error

	// Program reference for sending messages from goroutines
	program   *tea.Program
	programMu sync.Mutex
}

// New builds the chat surface around an authenticated backend client. The
// reconciler and orchestrator are wired here so their callbacks can feed the
// Bubble Tea message loop.
func New(
	ctx context.Context,
	config *configuration.Config,
	backend *pocketbase.Client,
	sessionManager *session.Manager,
	archive reconciler.Archive,
) *Model {
	ta := textarea.New()
	ta.Placeholder = "Mesajınızı yazın... (Enter to send, Tab to switch rooms, Alt+P/N for history, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetHeight(textareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = typingStyle

	m := &Model{
		ctx:      ctx,
		config:   config,
		backend:  backend,
		session:  sessionManager,
		textarea: ta,
		spinner:  sp,
		history:  history.New(),
	}

	var bell func()
	if config.Chat.NotificationBell {
		bell = func() { fmt.Fprint(os.Stderr, "\a") }
	}
	m.reconciler = reconciler.New(
		reconciler.ClientStream{Client: backend},
		backend,
		sessionManager,
		reconciler.Options{
			HistoryPageSize: config.Chat.HistoryPageSize,
			Notify:          bell,
			OnChange:        func(roomID string) { m.send(roomChangedMsg{roomID: roomID}) },
			Archive:         archive,
		},
	)

	m.orchestrator = orchestrator.New(
		m.generalBackend(ctx),
		m.specializedBackend(),
		backend,
		orchestrator.Options{
			TypingDelay:      config.Chat.TypingDelay(),
			SpecializedBotID: registry.SocratesBotID,
			OnTyping:         func(active bool) { m.send(typingMsg{active: active}) },
		},
	)

	return m
}

// generalBackend builds the group generation backend, or nil when its key is
// missing. The orchestrator degrades gracefully on nil.
func (m *Model) generalBackend(ctx context.Context) llm.GroupGenerator {
	client, err := llm.NewGeminiClient(ctx, m.config.Gemini.APIKey, m.config.Gemini.Model)
	if err != nil {
		log.Warn("general generation backend unavailable", "error", err)
		return nil
	}
	return client
}

// specializedBackend builds the specialized persona backend, or nil when its
// key is missing.
func (m *Model) specializedBackend() llm.PersonaGenerator {
	client, err := llm.NewGrokClient(m.config.Grok.APIKey, m.config.Grok.APIHost, m.config.Grok.Model)
	if err != nil {
		log.Warn("specialized generation backend unavailable", "error", err)
		return nil
	}
	return client
}

// SetProgram sets the tea.Program reference for async message sending.
func (m *Model) SetProgram(p *tea.Program) {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	m.program = p
}

func (m *Model) getProgram() *tea.Program {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	return m.program
}

// send forwards a message into the Bubble Tea loop from any goroutine.
func (m *Model) send(msg tea.Msg) {
	if p := m.getProgram(); p != nil {
		p.Send(msg)
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.startup(),
		m.loadUsers(),
	)
}
