// Package history implements input recall for the message box, persisted
// across runs so a reconnecting user keeps their recent inputs.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/volkanakbulut73/sohbetchat3/internal/debug"
)

const (
	fileName   = "sohbetchat_input_history"
	maxEntries = 500
)

var log = debug.GetLogger()

// History holds sent inputs, newest last. Navigation walks backwards from
// the end; index -1 means "composing a new input".
type History struct {
	mu      sync.Mutex
	entries []string
	index   int
	// draft preserves the in-progress input while navigating.
	draft string
	path  string
}

// New loads the persisted history.
func New() *History {
	h := &History{
		index: -1,
		path:  filepath.Join(os.TempDir(), fileName),
	}
	h.load()
	return h
}

func (h *History) load() {
	file, err := os.Open(h.path)
	if err != nil {
		// First run.
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			h.entries = append(h.entries, line)
		}
	}
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
}

func (h *History) save() {
	h.mu.Lock()
	entries := make([]string, len(h.entries))
	copy(entries, h.entries)
	h.mu.Unlock()

	file, err := os.Create(h.path)
	if err != nil {
		log.Warn("persisting input history failed", "path", h.path, "error", err)
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, entry := range entries {
		writer.WriteString(entry + "\n")
	}
	writer.Flush()
}

// Add records a sent input and resets navigation.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" || strings.Contains(entry, "\n") {
		return
	}

	h.mu.Lock()
	h.index = -1
	h.draft = ""
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
	h.mu.Unlock()

	h.save()
}

// Previous steps one entry back, preserving the current draft on the first
// step. Reports false when there is nowhere older to go.
func (h *History) Previous(draft string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index == -1:
		h.draft = draft
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	default:
		return h.entries[0], false
	}
	return h.entries[h.index], true
}

// Next steps one entry forward, restoring the draft past the newest entry.
// Reports false when not navigating.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == -1 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		h.index = -1
		return h.draft, true
	}
	return h.entries[h.index], true
}

// Reset abandons navigation. Call when the user edits the input.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.index = -1
	h.draft = ""
}
