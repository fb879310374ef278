// Package debug provides the process-wide diagnostic logger. The TUI owns
// stdout, so everything is written to a log file instead.
package debug

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// GetLogger returns a singleton slog logger instance.
func GetLogger() *slog.Logger {
	once.Do(func() {
		path := os.Getenv("SOHBETCHAT_DEBUG_LOG")
		if path == "" {
			path = filepath.Join(os.TempDir(), "sohbetchat-debug.log")
		}
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			// Swallow diagnostics rather than break the client.
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			return
		}
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	})
	return logger
}
