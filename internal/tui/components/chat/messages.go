package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/readnote/readnote/internal/tui/components/core"
	"github.com/readnote/readnote/internal/tui/styles"
)

// Message is one chat bubble in the panel.
type Message struct {
	Role     string // "user", "assistant", "system"
	Content  string
	Markdown bool
}

// MessageListModel implements the scrollback of chat bubbles.
type MessageListModel struct {
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int

	messages []Message
	busy     bool
}

var _ core.Component = (*MessageListModel)(nil)
var _ core.Sizeable = (*MessageListModel)(nil)

// NewMessageList creates a new message list component.
func NewMessageList() *MessageListModel {
	vp := viewport.New()
	vp.MouseWheelEnabled = true

	s := spinner.New(spinner.WithSpinner(spinner.Dot))

	return &MessageListModel{
		viewport: vp,
		spinner:  s,
	}
}

// Init initializes the message list component.
func (ml *MessageListModel) Init() tea.Cmd {
	return ml.spinner.Tick
}

// Update handles messages for the message list component.
func (ml *MessageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if _, ok := msg.(spinner.TickMsg); ok {
		ml.spinner, cmd = ml.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if ml.busy {
			ml.refreshContent()
		}
	}

	ml.viewport, cmd = ml.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return ml, tea.Batch(cmds...)
}

// SetSize sets the dimensions of the message list.
func (ml *MessageListModel) SetSize(width, height int) tea.Cmd {
	ml.width = width
	ml.height = height
	ml.viewport = viewport.New(
		viewport.WithWidth(width),
		viewport.WithHeight(height),
	)
	ml.viewport.MouseWheelEnabled = true
	ml.refreshContent()
	ml.viewport.GotoBottom()
	return nil
}

// View renders the message list.
func (ml *MessageListModel) View() string {
	return ml.viewport.View()
}

// SetMessages replaces the rendered messages.
func (ml *MessageListModel) SetMessages(messages []Message) {
	ml.messages = messages
	ml.refreshContent()
	ml.viewport.GotoBottom()
}

// Append adds one message to the scrollback.
func (ml *MessageListModel) Append(msg Message) {
	ml.messages = append(ml.messages, msg)
	ml.refreshContent()
	ml.viewport.GotoBottom()
}

// SetBusy toggles the thinking spinner at the bottom of the scrollback.
func (ml *MessageListModel) SetBusy(busy bool) {
	ml.busy = busy
	ml.refreshContent()
	ml.viewport.GotoBottom()
}

func (ml *MessageListModel) refreshContent() {
	ml.viewport.SetContent(ml.renderMessages())
}

func (ml *MessageListModel) renderMessages() string {
	theme := styles.CurrentTheme()

	userStyle := lipgloss.NewStyle().Foreground(theme.FgBase)
	assistantStyle := lipgloss.NewStyle().Foreground(theme.Secondary)
	systemStyle := lipgloss.NewStyle().Foreground(theme.FgMuted)

	var sb strings.Builder

	if len(ml.messages) == 0 && !ml.busy {
		welcome := lipgloss.NewStyle().
			Foreground(theme.FgMuted).
			Italic(true).
			Render("Select text with `readnote send`, or chat about the selected page.")
		sb.WriteString(welcome)
		sb.WriteString("\n\n")

		hint := lipgloss.NewStyle().
			Foreground(theme.FgMuted).
			Render(DefaultPlaceholder)
		sb.WriteString(hint)
		sb.WriteString("\n")
		return sb.String()
	}

	for _, msg := range ml.messages {
		var rolePrefix string
		var contentStyle lipgloss.Style

		switch msg.Role {
		case "user":
			rolePrefix = "You:"
			contentStyle = userStyle
		case "assistant":
			rolePrefix = "ReadNote:"
			contentStyle = assistantStyle
		default:
			rolePrefix = "•"
			contentStyle = systemStyle
		}

		sb.WriteString(rolePrefix)
		sb.WriteString("\n")

		content := msg.Content
		if msg.Markdown {
			if rendered, err := ml.renderMarkdown(content); err == nil {
				content = rendered
			}
		}

		sb.WriteString(contentStyle.Render(content))
		sb.WriteString("\n")
	}

	if ml.busy {
		sb.WriteString(ml.spinner.View())
		sb.WriteString(" thinking...\n")
	}

	return sb.String()
}

func (ml *MessageListModel) renderMarkdown(content string) (string, error) {
	width := ml.width - 4
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", err
	}
	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(rendered, "\n"), nil
}

// GotoBottom scrolls to the bottom of the viewport.
func (ml *MessageListModel) GotoBottom() {
	ml.viewport.GotoBottom()
}
