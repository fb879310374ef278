// Package configuration loads the client configuration from a JSON file,
// writing defaults on first run. API keys may be supplied through the
// environment (optionally via a .env file), which takes precedence over the
// file so credentials can stay out of it.
package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var defaultConfig = Config{
	BackendURL:     "https://api.workigomchat.online",
	RequestTimeout: 60,

	Gemini: &GeminiConfig{
		Model: "gemini-3-flash-preview",
	},

	Grok: &GrokConfig{
		APIHost: "https://api.x.ai/v1",
		Model:   "grok-3",
	},

	Chat: &ChatConfig{
		HistoryPageSize:  50,
		TypingDelayMs:    1000,
		Database:         "~/.config/sohbetchat/sohbetchat.db",
		NotificationBell: true,
	},
}

// Config holds configuration for the sohbetchat client.
type Config struct {
	// BackendURL is the base url of the PocketBase-style record server.
	BackendURL     string `json:"backend_url"`
	RequestTimeout int    `json:"request_timeout"`

	Gemini *GeminiConfig `json:"gemini"`
	Grok   *GrokConfig   `json:"grok"`
	Chat   *ChatConfig   `json:"chat"`
}

// GeminiConfig holds configuration of the general generation backend.
type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// GrokConfig holds configuration of the specialized generation backend.
// The host is OpenAI-compatible.
type GrokConfig struct {
	APIKey  string `json:"api_key"`
	APIHost string `json:"api_host"`
	Model   string `json:"model"`
}

// ChatConfig holds configuration of the chat surface.
type ChatConfig struct {
	// HistoryPageSize bounds the initial history window fetched per room.
	HistoryPageSize int `json:"history_page_size"`
	// TypingDelayMs paces sequential bot replies.
	TypingDelayMs int `json:"typing_delay_ms"`
	// Database is the local transcript archive.
	Database string `json:"database"`
	// NotificationBell rings the terminal bell on foreign messages.
	NotificationBell bool `json:"notification_bell"`
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// TypingDelay returns the bot pacing delay as a duration.
func (c *ChatConfig) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMs) * time.Millisecond
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if config.Gemini == nil {
		config.Gemini = defaultConfig.Gemini
	}
	if config.Grok == nil {
		config.Grok = defaultConfig.Grok
	}
	if config.Chat == nil {
		config.Chat = defaultConfig.Chat
	}

	expandedDatabasePath, err := ExpandPath(config.Chat.Database)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Chat.Database = expandedDatabasePath

	config.applyEnvironment()
	return config, nil
}

// applyEnvironment overlays credentials and endpoints from the environment.
// A .env in the working directory is honored but never required.
func (c *Config) applyEnvironment() {
	_ = godotenv.Load()

	if v := os.Getenv("SOHBETCHAT_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GROK_API_KEY"); v != "" {
		c.Grok.APIKey = v
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
}

func initializeIfNotPresent(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrap(err, "getting file info")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating directory")
	}
	bytes, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling default config")
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return errors.Wrap(err, "writing default config")
	}
	return nil
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home dir")
	}
	return filepath.Join(home, path[2:]), nil
}
