package app

import (
	intrnl "pollchat/internal"
)

// RunClient starts the TUI against the configured server.
func RunClient(cfg ClientConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return intrnl.RunClient(cfg.ServerURL, cfg.Username, cfg.MessagePoll, cfg.TypingPoll)
}
