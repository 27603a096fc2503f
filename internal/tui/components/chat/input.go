package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/readnote/readnote/internal/tui/components/core"
	"github.com/readnote/readnote/internal/tui/styles"
)

// InputModel is the panel's single-line input box. Capture flows change its
// placeholder; the box itself never knows which flow is consuming it.
type InputModel struct {
	value       string
	placeholder string
	cursorPos   int
	width       int
	height      int
	focused     bool
	enabled     bool
}

var _ core.Component = (*InputModel)(nil)
var _ core.Sizeable = (*InputModel)(nil)
var _ core.Focusable = (*InputModel)(nil)

// DefaultPlaceholder is what the box shows in plain chat mode.
const DefaultPlaceholder = "Type a message or /help for commands"

// NewInput creates a new input component.
func NewInput() *InputModel {
	return &InputModel{
		placeholder: DefaultPlaceholder,
		focused:     true,
		enabled:     true,
	}
}

// Init initializes the input component.
func (im *InputModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the input component.
func (im *InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !im.enabled || !im.focused {
		return im, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "backspace":
			if im.cursorPos > 0 {
				im.value = im.value[:im.cursorPos-1] + im.value[im.cursorPos:]
				im.cursorPos--
			}
		case "delete":
			if im.cursorPos < len(im.value) {
				im.value = im.value[:im.cursorPos] + im.value[im.cursorPos+1:]
			}
		case "left":
			if im.cursorPos > 0 {
				im.cursorPos--
			}
		case "right":
			if im.cursorPos < len(im.value) {
				im.cursorPos++
			}
		case "home", "ctrl+a":
			im.cursorPos = 0
		case "end", "ctrl+e":
			im.cursorPos = len(im.value)
		case "ctrl+k":
			im.value = im.value[:im.cursorPos]
		case "ctrl+u":
			im.value = im.value[im.cursorPos:]
			im.cursorPos = 0
		case "space":
			// Bubble Tea v2 reports the space key as "space".
			im.value = im.value[:im.cursorPos] + " " + im.value[im.cursorPos:]
			im.cursorPos++
		case "enter", "tab", "esc", "ctrl+c":
			// Parent handles these.
			return im, nil
		default:
			if len(key) == 1 && key[0] >= 32 && key[0] < 127 {
				im.value = im.value[:im.cursorPos] + key + im.value[im.cursorPos:]
				im.cursorPos++
			}
		}
	}

	return im, nil
}

// SetSize sets the dimensions of the input component.
func (im *InputModel) SetSize(width, height int) tea.Cmd {
	im.width = width
	im.height = height
	return nil
}

// View renders the input component.
func (im *InputModel) View() string {
	theme := styles.CurrentTheme()
	inputStyle := lipgloss.NewStyle().
		Width(im.width - 2).
		Padding(0, 1)

	if im.value == "" && im.placeholder != "" {
		placeholderStyle := inputStyle.Foreground(theme.FgMuted)
		return placeholderStyle.Render(im.placeholder)
	}

	if im.focused && im.enabled {
		before := im.value[:im.cursorPos]
		after := ""
		cursor := " "

		if im.cursorPos < len(im.value) {
			cursor = string(im.value[im.cursorPos])
			after = im.value[im.cursorPos+1:]
		}

		cursorStyle := lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("0"))

		return inputStyle.Render(before + cursorStyle.Render(cursor) + after)
	}

	return inputStyle.Render(im.value)
}

// Focus focuses the input component.
func (im *InputModel) Focus() tea.Cmd {
	im.focused = true
	return nil
}

// Blur removes focus from the input component.
func (im *InputModel) Blur() tea.Cmd {
	im.focused = false
	return nil
}

// Focused returns whether the input component is focused.
func (im *InputModel) Focused() bool {
	return im.focused
}

// Value returns the current input value.
func (im *InputModel) Value() string {
	return im.value
}

// SetValue replaces the input value.
func (im *InputModel) SetValue(value string) {
	im.value = value
	im.cursorPos = len(value)
}

// CursorEnd moves the cursor to the end of the input.
func (im *InputModel) CursorEnd() {
	im.cursorPos = len(im.value)
}

// Reset clears the input.
func (im *InputModel) Reset() {
	im.value = ""
	im.cursorPos = 0
}

// SetEnabled enables or disables the input.
func (im *InputModel) SetEnabled(enabled bool) {
	im.enabled = enabled
}

// IsEmpty returns true if the input is empty.
func (im *InputModel) IsEmpty() bool {
	return strings.TrimSpace(im.value) == ""
}

// IsSlashCommand returns true if the input starts with a slash.
func (im *InputModel) IsSlashCommand() bool {
	return strings.HasPrefix(strings.TrimSpace(im.value), "/")
}

// SetPlaceholder sets the placeholder text.
func (im *InputModel) SetPlaceholder(placeholder string) {
	im.placeholder = placeholder
}
