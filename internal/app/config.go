package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "pollchat"

// ServerConfig defines how the HTTP backend should run. Values come from
// POLLCHAT_* environment variables; flags may override them afterwards.
type ServerConfig struct {
	Addr          string        `envconfig:"ADDR" default:":8080"`
	DBPath        string        `envconfig:"DB_PATH"`
	ActiveWindow  time.Duration `envconfig:"ACTIVE_WINDOW" default:"3s"`
	ReapWindow    time.Duration `envconfig:"REAP_WINDOW" default:"5s"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"10s"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

// ClientConfig defines the parameters the TUI client needs.
type ClientConfig struct {
	ServerURL   string        `envconfig:"SERVER" default:"http://localhost:8080"`
	Username    string        `envconfig:"USER"`
	MessagePoll time.Duration `envconfig:"MESSAGE_POLL" default:"2s"`
	TypingPoll  time.Duration `envconfig:"TYPING_POLL" default:"1s"`
}

// ServerConfigFromEnv reads the server settings from the environment.
func ServerConfigFromEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// ClientConfigFromEnv reads the client settings from the environment.
func ClientConfigFromEnv() (ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Validate enforces the window relationships the presence registry relies
// on: the reap window must outlast the active window so an entry can go
// invisible before it is physically removed.
func (c ServerConfig) Validate() error {
	if c.ActiveWindow <= 0 {
		return errors.New("active window must be positive")
	}
	if c.ReapWindow <= c.ActiveWindow {
		return fmt.Errorf("reap window (%s) must exceed active window (%s)", c.ReapWindow, c.ActiveWindow)
	}
	if c.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	return nil
}

// Validate checks the polling cadence. The typing poll has to stay under the
// server's default active window, otherwise a continuously typing user
// flickers in and out between polls.
func (c ClientConfig) Validate() error {
	if c.MessagePoll <= 0 {
		return errors.New("message poll interval must be positive")
	}
	if c.TypingPoll <= 0 {
		return errors.New("typing poll interval must be positive")
	}
	return nil
}

// DefaultDBPath returns a per-user data path for the bundled SQLite file.
func DefaultDBPath() string {
	if env := os.Getenv("POLLCHAT_DB_PATH"); env != "" {
		return env
	}
	if env := os.Getenv("POLLCHAT_DATA_DIR"); env != "" {
		return filepath.Join(env, "pollchat.db")
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pollchat", "pollchat.db")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Pollchat", "pollchat.db")
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "Pollchat", "pollchat.db")
		}
		return filepath.Join(home, ".local", "share", "pollchat", "pollchat.db")
	}
	return filepath.Join(".", ".pollchat", "pollchat.db")
}
