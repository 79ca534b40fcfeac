package internal

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// tui model for the polling chat client
type TUIModel struct {
	textInput     textinput.Model
	messages      []Message
	seenCount     int
	typing        []string
	serverBaseURL string
	username      string
	messagePoll   time.Duration
	typingPoll    time.Duration
	polledOnce    bool
	lastError     error
	mode          appMode
}

type appMode int

const (
	modeNamePrompt appMode = iota
	modeChat
)

func NewTUIModel(serverBaseURL, username string, messagePoll, typingPoll time.Duration) *TUIModel {
	input := textinput.New()
	input.Placeholder = "Type a message…"
	input.CharLimit = MaxContentLength
	input.Focus()
	input.Prompt = "> "

	if username == "" {
		username = defaultUsername()
	}

	model := &TUIModel{
		textInput:     input,
		messages:      make([]Message, 0, 64),
		serverBaseURL: serverBaseURL,
		username:      username,
		messagePoll:   messagePoll,
		typingPoll:    typingPoll,
		mode:          modeChat,
	}
	if username == "" {
		model.mode = modeNamePrompt
		model.textInput.Placeholder = "Enter display name…"
		model.textInput.Prompt = "name> "
	}
	return model
}

// init user
func defaultUsername() string {
	if user := os.Getenv("POLLCHAT_USER"); user != "" {
		return user
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return ""
}

func (model *TUIModel) Init() tea.Cmd {
	if model.mode == modeChat {
		return model.startPolling()
	}
	return nil
}
