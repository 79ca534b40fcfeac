package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// pre styled colors, all from lipgloss
var (
	appTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).Padding(0, 1)
	chatHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("109")).MarginTop(1)
	connectedStyle     = statusStyle.Copy().Foreground(lipgloss.Color("42")).Bold(true)
	connectingStyle    = statusStyle.Copy().Foreground(lipgloss.Color("178")).Italic(true)
	messageBodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("253"))
	messageBoxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2).MarginTop(1)
	inputBoxStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1).MarginTop(1)
	timestampStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	usernameStyle      = lipgloss.NewStyle().Bold(true)
	activeUserStyle    = usernameStyle.Copy().Foreground(lipgloss.Color("213"))
	systemMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	typingStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Italic(true)
	errorStyle         = statusStyle.Copy().Foreground(lipgloss.Color("196")).Bold(true)
	menuHintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
	dividerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("237")).Render(" ┃ ")
	userColorPalette   = []lipgloss.Color{
		lipgloss.Color("45"),
		lipgloss.Color("81"),
		lipgloss.Color("141"),
		lipgloss.Color("98"),
		lipgloss.Color("63"),
		lipgloss.Color("135"),
		lipgloss.Color("32"),
	}
)

func (model TUIModel) View() string {
	if model.mode == modeNamePrompt {
		return model.renderNamePromptView()
	}
	return model.renderChatView()
}

func (model TUIModel) renderNamePromptView() string {
	title := appTitleStyle.Render("PollChat")
	hint := menuHintStyle.Render("Pick a display name and press Enter.")
	input := inputBoxStyle.Render(model.textInput.View())
	return lipgloss.JoinVertical(lipgloss.Left, title, hint, input)
}

func (model TUIModel) renderChatView() string {
	headerSegments := []string{
		"PollChat",
		fmt.Sprintf("User %s", model.username),
		fmt.Sprintf("Server %s", model.serverBaseURL),
	}
	header := chatHeaderStyle.Render(strings.Join(headerSegments, dividerStyle))

	var statusLine string
	switch {
	case model.lastError != nil:
		statusLine = errorStyle.Render("Sync error: " + model.lastError.Error())
	case model.polledOnce:
		statusLine = connectedStyle.Render("Synced")
	default:
		statusLine = connectingStyle.Render("Syncing…")
	}

	var messageLines []string
	for _, chat := range model.messages {
		messageLines = append(messageLines, model.renderChatMessage(chat))
	}
	if len(messageLines) == 0 {
		messageLines = append(messageLines, systemMessageStyle.Render("No messages yet. Say hi and start the conversation."))
	}

	messagesView := messageBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, messageLines...))
	inputView := inputBoxStyle.Render(model.textInput.View())
	footerHint := menuHintStyle.Render("Enter to send • /quit to leave")

	sections := []string{header, statusLine, messagesView}
	if typingLine := renderTypingLine(model.typing); typingLine != "" {
		sections = append(sections, typingLine)
	}
	sections = append(sections, inputView, footerHint)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderChatMessage renders a single log line. It stamps the timestamp, picks
// a color for the sender, and indents multi-line messages so they stay legible.
func (model TUIModel) renderChatMessage(chat Message) string {
	timestamp := timestampStyle.Render(fmt.Sprintf("[%s]", chat.CreatedAt.Local().Format("15:04:05")))

	var nameStyle lipgloss.Style
	if chat.Author == model.username {
		nameStyle = activeUserStyle
	} else {
		nameStyle = usernameStyle.Copy().Foreground(colorForUser(chat.Author))
	}

	name := nameStyle.Render(chat.Author)
	bodyText := messageBodyStyle.Render(strings.ReplaceAll(chat.Content, "\n", "\n   "))

	return lipgloss.JoinHorizontal(lipgloss.Left, timestamp, " ", name, ": ", bodyText)
}

func renderTypingLine(typing []string) string {
	switch len(typing) {
	case 0:
		return ""
	case 1:
		return typingStyle.Render(fmt.Sprintf("%s is typing…", typing[0]))
	case 2:
		return typingStyle.Render(fmt.Sprintf("%s and %s are typing…", typing[0], typing[1]))
	default:
		return typingStyle.Render("several people are typing…")
	}
}

// color for users
func colorForUser(name string) lipgloss.Color {
	if name == "" {
		return userColorPalette[0]
	}
	var sum int
	for _, r := range name {
		sum += int(r)
	}
	return userColorPalette[sum%len(userColorPalette)]
}
