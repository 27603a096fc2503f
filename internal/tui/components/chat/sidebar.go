package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/tui/components/core"
	"github.com/readnote/readnote/internal/tui/styles"
)

// SidebarModel shows who is signed in and the notebook/section/page pickers
// the commands operate on.
type SidebarModel struct {
	width  int
	height int

	signedIn bool
	user     notes.User

	notebooks []notes.Notebook
	sections  []notes.Section
	pages     []notes.Page

	notebookIdx int
	sectionIdx  int
	pageIdx     int
}

var _ core.Component = (*SidebarModel)(nil)
var _ core.Sizeable = (*SidebarModel)(nil)

// NewSidebar creates a new sidebar component.
func NewSidebar() *SidebarModel {
	return &SidebarModel{}
}

// Init initializes the sidebar component.
func (sm *SidebarModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sidebar component.
func (sm *SidebarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return sm, nil
}

// SetSize sets the dimensions of the sidebar.
func (sm *SidebarModel) SetSize(width, height int) tea.Cmd {
	sm.width = width
	sm.height = height
	return nil
}

// SetUser marks the panel signed in.
func (sm *SidebarModel) SetUser(user notes.User) {
	sm.signedIn = true
	sm.user = user
}

// SetSignedOut clears the user and all pickers.
func (sm *SidebarModel) SetSignedOut() {
	sm.signedIn = false
	sm.user = notes.User{}
	sm.notebooks = nil
	sm.sections = nil
	sm.pages = nil
	sm.notebookIdx, sm.sectionIdx, sm.pageIdx = 0, 0, 0
}

// SetNotebooks replaces the notebook picker's rows.
func (sm *SidebarModel) SetNotebooks(notebooks []notes.Notebook) {
	sm.notebooks = notebooks
	sm.notebookIdx = 0
}

// SetSections replaces the section picker's rows.
func (sm *SidebarModel) SetSections(sections []notes.Section) {
	sm.sections = sections
	sm.sectionIdx = 0
	sm.pages = nil
	sm.pageIdx = 0
}

// SetPages replaces the page picker's rows.
func (sm *SidebarModel) SetPages(pages []notes.Page) {
	sm.pages = pages
	sm.pageIdx = 0
}

// NextNotebook cycles the notebook selection and returns the new ID.
func (sm *SidebarModel) NextNotebook() (string, bool) {
	if len(sm.notebooks) == 0 {
		return "", false
	}
	sm.notebookIdx = (sm.notebookIdx + 1) % len(sm.notebooks)
	return sm.notebooks[sm.notebookIdx].ID, true
}

// NextSection cycles the section selection and returns the new ID.
func (sm *SidebarModel) NextSection() (string, bool) {
	if len(sm.sections) == 0 {
		return "", false
	}
	sm.sectionIdx = (sm.sectionIdx + 1) % len(sm.sections)
	return sm.sections[sm.sectionIdx].ID, true
}

// NextPage cycles the page selection and returns the new ID.
func (sm *SidebarModel) NextPage() (string, bool) {
	if len(sm.pages) == 0 {
		return "", false
	}
	sm.pageIdx = (sm.pageIdx + 1) % len(sm.pages)
	return sm.pages[sm.pageIdx].ID, true
}

// SelectedNotebookID returns the selected notebook's ID, if any.
func (sm *SidebarModel) SelectedNotebookID() string {
	if len(sm.notebooks) == 0 {
		return ""
	}
	return sm.notebooks[sm.notebookIdx].ID
}

// SelectedSectionID returns the selected section's ID, if any.
func (sm *SidebarModel) SelectedSectionID() string {
	if len(sm.sections) == 0 {
		return ""
	}
	return sm.sections[sm.sectionIdx].ID
}

// SelectedPage returns the selected page, if any.
func (sm *SidebarModel) SelectedPage() (notes.Page, bool) {
	if len(sm.pages) == 0 {
		return notes.Page{}, false
	}
	return sm.pages[sm.pageIdx], true
}

// View renders the sidebar.
func (sm *SidebarModel) View() string {
	theme := styles.CurrentTheme()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	mutedStyle := lipgloss.NewStyle().Foreground(theme.FgMuted)
	selectedStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("ReadNote"))
	sb.WriteString("\n\n")

	if !sm.signedIn {
		sb.WriteString(mutedStyle.Render("Not signed in"))
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("Use /login"))
		sb.WriteString("\n")
		return sb.String()
	}

	name := sm.user.DisplayName
	if name == "" {
		name = "user"
	}
	sb.WriteString("Welcome, " + name + "\n\n")

	sm.renderPicker(&sb, "Notebooks (^n)", sm.notebookIdx,
		lo.Map(sm.notebooks, func(nb notes.Notebook, _ int) string { return nb.DisplayName }),
		selectedStyle, mutedStyle)
	sm.renderPicker(&sb, "Sections (^s)", sm.sectionIdx,
		lo.Map(sm.sections, func(sec notes.Section, _ int) string { return sec.DisplayName }),
		selectedStyle, mutedStyle)
	sm.renderPicker(&sb, "Pages (^g)", sm.pageIdx,
		lo.Map(sm.pages, func(pg notes.Page, _ int) string { return pg.Title }),
		selectedStyle, mutedStyle)

	return sb.String()
}

func (sm *SidebarModel) renderPicker(sb *strings.Builder, title string, selected int, rows []string, selectedStyle, mutedStyle lipgloss.Style) {
	sb.WriteString(mutedStyle.Render(title))
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString(mutedStyle.Render("  (none)"))
		sb.WriteString("\n\n")
		return
	}

	for i, row := range rows {
		if len(row) > sm.width-4 && sm.width > 7 {
			row = row[:sm.width-7] + "..."
		}
		if i == selected {
			sb.WriteString(selectedStyle.Render("▸ " + row))
		} else {
			sb.WriteString("  " + row)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
