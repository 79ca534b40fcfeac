package internal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (model *TUIModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case tea.KeyMsg:
		// Any mode should respect Ctrl+C or Esc so the user can bail out quickly.
		if typedMessage.Type == tea.KeyCtrlC || typedMessage.Type == tea.KeyEsc {
			return model, tea.Quit
		}
		switch model.mode {
		case modeNamePrompt:
			return model.updateNamePrompt(typedMessage)
		case modeChat:
			return model.updateChat(typedMessage)
		}

	case messagesSnapshotMsg:
		snapshot := []Message(typedMessage)
		// The server hands out the full log; everything past seenCount is
		// new. This only works because history never shrinks or reorders.
		if len(snapshot) < model.seenCount {
			model.messages = snapshot
		} else {
			model.messages = append(model.messages, diffNewMessages(model.seenCount, snapshot)...)
		}
		model.seenCount = len(snapshot)
		model.polledOnce = true
		model.lastError = nil
		return model, nil

	case typingSnapshotMsg:
		model.typing = []string(typedMessage)
		return model, nil

	case messageSentMsg:
		// Pull the log right away instead of echoing locally; the count
		// diff stays in sync no matter what interleaved on the server.
		return model, model.fetchMessagesCmd()

	case messagePollTickMsg:
		if model.mode != modeChat {
			return model, model.scheduleMessagePoll()
		}
		return model, tea.Batch(model.fetchMessagesCmd(), model.scheduleMessagePoll())

	case typingPollTickMsg:
		if model.mode != modeChat {
			return model, model.scheduleTypingPoll()
		}
		return model, tea.Batch(model.typingStatusCmd(), model.scheduleTypingPoll())

	case pollFailedMsg:
		model.lastError = typedMessage.err
		return model, nil

	case sendFailedMsg:
		model.lastError = typedMessage.err
		return model, nil
	}
	return model, nil
}

func (model *TUIModel) updateNamePrompt(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEnter {
		trimmed := strings.TrimSpace(model.textInput.Value())
		if trimmed == "" {
			return model, nil
		}
		model.username = trimmed
		model.mode = modeChat
		model.textInput.SetValue("")
		model.textInput.Placeholder = "Type a message…"
		model.textInput.Prompt = "> "
		return model, tea.Batch(model.textInput.Focus(), model.startPolling())
	}
	var cmd tea.Cmd
	model.textInput, cmd = model.textInput.Update(key)
	return model, cmd
}

func (model *TUIModel) updateChat(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEnter {
		trimmed := strings.TrimSpace(model.textInput.Value())
		if trimmed == "" {
			return model, nil
		}
		if strings.EqualFold(trimmed, "/quit") || strings.EqualFold(trimmed, "/exit") {
			return model, tea.Quit
		}
		model.textInput.SetValue("")
		return model, model.sendMessageCmd(trimmed)
	}

	var inputCmd tea.Cmd
	model.textInput, inputCmd = model.textInput.Update(key)
	if isTypingKey(key) {
		// every keystroke refreshes our typing signal; the server dedups
		return model, tea.Batch(inputCmd, model.touchTypingCmd())
	}
	return model, inputCmd
}

func isTypingKey(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
		return true
	}
	return false
}
