package internal

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	messagesSnapshotMsg []Message
	typingSnapshotMsg   []string
	messageSentMsg      Message
	messagePollTickMsg  struct{}
	typingPollTickMsg   struct{}
	pollFailedMsg       struct{ err error }
	sendFailedMsg       struct{ err error }
)

// startPolling kicks off both poll loops plus an immediate first fetch so
// the user does not stare at an empty room for a whole interval.
func (model *TUIModel) startPolling() tea.Cmd {
	return tea.Batch(
		model.fetchMessagesCmd(),
		model.typingStatusCmd(),
		model.scheduleMessagePoll(),
		model.scheduleTypingPoll(),
	)
}

func (model *TUIModel) scheduleMessagePoll() tea.Cmd {
	return tea.Tick(model.messagePoll, func(time.Time) tea.Msg {
		return messagePollTickMsg{}
	})
}

func (model *TUIModel) scheduleTypingPoll() tea.Cmd {
	return tea.Tick(model.typingPoll, func(time.Time) tea.Msg {
		return typingPollTickMsg{}
	})
}

func (model *TUIModel) fetchMessagesCmd() tea.Cmd {
	baseURL := model.serverBaseURL
	return func() tea.Msg {
		snapshot, err := apiFetchMessages(baseURL)
		if err != nil {
			return pollFailedMsg{err: err}
		}
		return messagesSnapshotMsg(snapshot)
	}
}

func (model *TUIModel) typingStatusCmd() tea.Cmd {
	baseURL := model.serverBaseURL
	self := model.username
	return func() tea.Msg {
		authors, err := apiTypingStatus(baseURL, self)
		if err != nil {
			return pollFailedMsg{err: err}
		}
		return typingSnapshotMsg(authors)
	}
}

func (model *TUIModel) sendMessageCmd(content string) tea.Cmd {
	baseURL := model.serverBaseURL
	author := model.username
	return func() tea.Msg {
		created, err := apiSendMessage(baseURL, content, author)
		if err != nil {
			return sendFailedMsg{err: err}
		}
		return messageSentMsg(created)
	}
}

// touchTypingCmd fires a best-effort typing touch. Presence is advisory, so
// a failed touch is swallowed and never surfaces to the user or blocks a
// message from going out.
func (model *TUIModel) touchTypingCmd() tea.Cmd {
	baseURL := model.serverBaseURL
	author := model.username
	return func() tea.Msg {
		_ = apiTouchTyping(baseURL, author)
		return nil
	}
}

// RunClient runs the TUI against a pollchat server base URL.
func RunClient(serverBaseURL, username string, messagePoll, typingPoll time.Duration) error {
	baseURL, err := normalizeBaseURL(serverBaseURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	program := tea.NewProgram(NewTUIModel(baseURL, username, messagePoll, typingPoll))
	_, err = program.Run()
	return err
}
