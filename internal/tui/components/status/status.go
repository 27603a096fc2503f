package status

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/readnote/readnote/internal/tui/styles"
)

// MessageType represents the type of status message.
type MessageType int

const (
	Info MessageType = iota
	Warning
	Error
	Success
)

// StatusMessage represents a status bar message.
type StatusMessage struct {
	Content   string
	Type      MessageType
	Timestamp time.Time
}

// Component implements a status bar that shows temporary messages. The left
// side carries the current page context, the right side the latest message.
type Component struct {
	message     *StatusMessage
	width       int
	leftContent string

	clearAfter time.Duration
}

// New creates a new status bar component.
func New() *Component {
	return &Component{
		clearAfter: 5 * time.Second,
	}
}

// SetMessage sets a status message with the given type.
func (c *Component) SetMessage(content string, msgType MessageType) tea.Cmd {
	c.message = &StatusMessage{
		Content:   content,
		Type:      msgType,
		Timestamp: time.Now(),
	}

	return tea.Tick(c.clearAfter, func(t time.Time) tea.Msg {
		return clearMessageMsg{timestamp: c.message.Timestamp}
	})
}

// ShowInfo shows an info message.
func (c *Component) ShowInfo(message string) tea.Cmd {
	return c.SetMessage(message, Info)
}

// ShowWarning shows a warning message.
func (c *Component) ShowWarning(message string) tea.Cmd {
	return c.SetMessage(message, Warning)
}

// ShowError shows an error message.
func (c *Component) ShowError(message string) tea.Cmd {
	return c.SetMessage(message, Error)
}

// ShowSuccess shows a success message.
func (c *Component) ShowSuccess(message string) tea.Cmd {
	return c.SetMessage(message, Success)
}

// SetLeftContent sets the left side content, usually the selected page.
func (c *Component) SetLeftContent(content string) {
	c.leftContent = content
}

// SetSize implements the Sizeable interface.
func (c *Component) SetSize(width, height int) tea.Cmd {
	c.width = width
	return nil
}

// clearMessageMsg is sent when a status message should be cleared.
type clearMessageMsg struct {
	timestamp time.Time
}

// Init implements the Component interface.
func (c *Component) Init() tea.Cmd {
	return nil
}

// Update implements the Component interface.
func (c *Component) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearMessageMsg:
		// Only clear if this is for the current message.
		if c.message != nil && msg.timestamp.Equal(c.message.Timestamp) {
			c.message = nil
		}
	}

	return c, nil
}

// View implements the Component interface.
func (c *Component) View() string {
	if c.width == 0 {
		return ""
	}

	theme := styles.CurrentTheme()

	statusStyle := lipgloss.NewStyle().
		Width(c.width).
		Height(1).
		Background(theme.BgSubtle).
		Foreground(theme.FgBase).
		Padding(0, 1)

	leftContent := c.leftContent
	rightContent := ""
	if c.message != nil {
		rightContent = c.formatMessage()
	}

	availableWidth := c.width - 2

	if lipgloss.Width(leftContent)+lipgloss.Width(rightContent) > availableWidth {
		rightContent = truncate(rightContent, 40)

		remaining := availableWidth - lipgloss.Width(rightContent)
		if lipgloss.Width(leftContent) > remaining && remaining > 3 {
			leftContent = truncate(leftContent, remaining)
		}
	}

	content := leftContent
	if rightContent != "" {
		spacesNeeded := availableWidth - lipgloss.Width(leftContent) - lipgloss.Width(rightContent)
		if spacesNeeded > 0 {
			content += fmt.Sprintf("%*s%s", spacesNeeded, "", rightContent)
		} else {
			content += " " + rightContent
		}
	}

	return statusStyle.Render(content)
}

// truncate shortens s to at most max display cells, cutting on rune
// boundaries so wide and multibyte characters never get split.
func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (c *Component) formatMessage() string {
	if c.message == nil {
		return ""
	}

	switch c.message.Type {
	case Success:
		return "✅ " + c.message.Content
	case Warning:
		return "⚠️ " + c.message.Content
	case Error:
		return "❌ " + c.message.Content
	default:
		return c.message.Content
	}
}
