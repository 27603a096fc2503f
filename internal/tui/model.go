package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/readnote/readnote/internal/app"
	"github.com/readnote/readnote/internal/queue"
	"github.com/readnote/readnote/internal/tui/components/chat"
	"github.com/readnote/readnote/internal/tui/components/status"
	"github.com/readnote/readnote/internal/tui/events"
	"github.com/readnote/readnote/internal/tui/styles"
)

// Fixed layout dimensions, shared by Update and View.
const (
	sidebarWidth = 28
	statusHeight = 1
	inputHeight  = 1
	borderHeight = 2 // top and bottom edge of a rounded border
)

// Model is the component-based panel model. All business logic lives in the
// app services; the model only routes keys and reacts to events.
type Model struct {
	width  int
	height int

	sidebar     *chat.SidebarModel
	messageList *chat.MessageListModel
	input       *chat.InputModel
	statusBar   *status.Component

	eventBroker *events.Broker
	eventSub    <-chan events.Event

	app *app.App

	messages []chat.Message
	busy     bool
}

// New creates the panel model from an app instance and event broker.
func New(appInstance *app.App, eventBroker *events.Broker) *Model {
	styles.SetTheme(appInstance.Config.Get().Theme)

	m := &Model{
		sidebar:     chat.NewSidebar(),
		messageList: chat.NewMessageList(),
		input:       chat.NewInput(),
		statusBar:   status.New(),
		eventBroker: eventBroker,
		app:         appInstance,
	}

	m.eventSub = eventBroker.Subscribe()

	return m
}

// Init initializes the panel model and all components.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd

	cmds = append(cmds, m.sidebar.Init())
	cmds = append(cmds, m.messageList.Init())
	cmds = append(cmds, m.input.Init())
	cmds = append(cmds, m.statusBar.Init())
	cmds = append(cmds, m.input.Focus())
	cmds = append(cmds, m.listenForEvents())

	// Restore the conversation from the request history.
	m.messages = historyMessages(m.app.Queue.Entries())
	m.messageList.SetMessages(m.messages)

	if m.app.Auth.SignedIn() {
		m.sidebar.SetUser(m.app.Auth.User())
		m.app.CommandService.LoadNotebooks()
	}

	m.eventBroker.PublishAsync(events.Event{
		Type: events.StatusMessageEvent,
		Payload: events.StatusMessagePayload{
			Message: "Welcome to ReadNote! Type a message or use /help",
			Type:    "info",
		},
	})

	return tea.Batch(cmds...)
}

// Update handles all panel updates and routes to components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if event, ok := msg.(events.Event); ok {
		model, cmd := m.handleEvent(event)
		cmds = append(cmds, cmd, model.(*Model).listenForEvents())
		return model, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mainWidth, messagesHeight := m.layoutSizes()

		cmds = append(cmds, m.sidebar.SetSize(sidebarWidth, m.height-statusHeight))
		cmds = append(cmds, m.messageList.SetSize(mainWidth-2, messagesHeight))
		cmds = append(cmds, m.input.SetSize(mainWidth-2, inputHeight))
		cmds = append(cmds, m.statusBar.SetSize(m.width, statusHeight))

		m.messageList.SetMessages(m.messages)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+n":
			if id, ok := m.sidebar.NextNotebook(); ok {
				m.pushSelection()
				m.app.CommandService.LoadSections(id)
			}
			return m, nil
		case "ctrl+s":
			if id, ok := m.sidebar.NextSection(); ok {
				m.pushSelection()
				m.app.CommandService.LoadPages(id)
			}
			return m, nil
		case "ctrl+g":
			if _, ok := m.sidebar.NextPage(); ok {
				m.pushSelection()
			}
			return m, nil
		case "enter":
			if !m.input.IsEmpty() && !m.busy {
				value := m.input.Value()
				m.input.Reset()
				return m, func() tea.Msg {
					m.app.Router.Route(value)
					return nil
				}
			}
			return m, nil
		case "tab":
			if m.input.IsSlashCommand() {
				return m.handleTabCompletion()
			}
		case "esc":
			if !m.input.IsEmpty() {
				m.input.Reset()
				return m, nil
			}
			if m.app.Router.Cancel() {
				m.input.SetPlaceholder(chat.DefaultPlaceholder)
			}
			return m, nil
		default:
			if m.input.Focused() && !m.busy {
				var inputModel tea.Model
				inputModel, cmd := m.input.Update(msg)
				if im, ok := inputModel.(*chat.InputModel); ok {
					m.input = im
				}
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd

	var messageListModel tea.Model
	messageListModel, cmd = m.messageList.Update(msg)
	if mlm, ok := messageListModel.(*chat.MessageListModel); ok {
		m.messageList = mlm
	}
	cmds = append(cmds, cmd)

	var statusModel tea.Model
	statusModel, cmd = m.statusBar.Update(msg)
	if sbm, ok := statusModel.(*status.Component); ok {
		m.statusBar = sbm
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the entire panel.
func (m *Model) View() tea.View {
	if m.width == 0 || m.height == 0 {
		return tea.NewView("Initializing...")
	}

	theme := styles.CurrentTheme()
	mainWidth, messagesHeight := m.layoutSizes()

	sidebarStyle := lipgloss.NewStyle().
		Width(sidebarWidth - 2).
		Height(m.height - statusHeight - borderHeight).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
	sidebarView := sidebarStyle.Render(m.sidebar.View())

	mainViewStyle := lipgloss.NewStyle().
		Width(mainWidth - 2).
		Height(messagesHeight).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
	mainView := mainViewStyle.Render(m.messageList.View())

	inputStyle := lipgloss.NewStyle().
		Width(mainWidth - 2).
		Height(inputHeight).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderFocus)
	inputView := inputStyle.Render(m.input.View())

	mainContent := lipgloss.JoinVertical(lipgloss.Left, mainView, inputView)
	topSection := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, mainContent)

	return tea.NewView(lipgloss.JoinVertical(lipgloss.Left, topSection, m.statusBar.View()))
}

// layoutSizes derives the main column width and the message area height
// from the current terminal size.
func (m *Model) layoutSizes() (mainWidth, messagesHeight int) {
	mainWidth = m.width - sidebarWidth
	messagesHeight = m.height - statusHeight - inputHeight - 2*borderHeight
	return mainWidth, messagesHeight
}

func (m *Model) handleTabCompletion() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	var matches []string
	for _, name := range app.CommandNames() {
		if strings.HasPrefix(name, value) {
			matches = append(matches, name)
		}
	}

	switch {
	case len(matches) == 1:
		m.input.SetValue(matches[0] + " ")
		m.input.CursorEnd()
	case len(matches) > 1:
		m.eventBroker.Publish(events.Event{
			Type: events.StatusMessageEvent,
			Payload: events.StatusMessagePayload{
				Message: "Commands: " + strings.Join(matches, "  "),
				Type:    "info",
			},
		})
	}

	return m, nil
}

// pushSelection syncs the sidebar's picked IDs to the command service.
func (m *Model) pushSelection() {
	sel := app.Selection{
		NotebookID: m.sidebar.SelectedNotebookID(),
		SectionID:  m.sidebar.SelectedSectionID(),
	}
	if page, ok := m.sidebar.SelectedPage(); ok {
		sel.PageID = page.ID
		sel.PageTitle = page.Title
	}
	m.app.CommandService.SetSelection(sel)
	m.statusBar.SetLeftContent("page: " + sel.PageTitle)
}

func (m *Model) appendMessage(msg chat.Message) {
	m.messages = append(m.messages, msg)
	m.messageList.Append(msg)
}

// listenForEvents creates a command that waits for events.
func (m *Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event := <-m.eventSub
		return event
	}
}

func (m *Model) handleEvent(event events.Event) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch event.Type {
	case events.UserMessageEvent, events.AssistantMessageEvent, events.SystemMessageEvent:
		if payload, ok := event.Payload.(events.MessagePayload); ok {
			m.appendMessage(chat.Message{
				Role:     payload.Role,
				Content:  payload.Content,
				Markdown: payload.Markdown,
			})
		}

	case events.BusyStartEvent:
		m.busy = true
		m.messageList.SetBusy(true)
		m.input.SetEnabled(false)

	case events.BusyEndEvent:
		m.busy = false
		m.messageList.SetBusy(false)
		m.input.SetEnabled(true)

	case events.StatusMessageEvent:
		if payload, ok := event.Payload.(events.StatusMessagePayload); ok {
			switch payload.Type {
			case "warning":
				cmds = append(cmds, m.statusBar.ShowWarning(payload.Message))
			case "error":
				cmds = append(cmds, m.statusBar.ShowError(payload.Message))
			case "success":
				cmds = append(cmds, m.statusBar.ShowSuccess(payload.Message))
			default:
				cmds = append(cmds, m.statusBar.ShowInfo(payload.Message))
			}
		}

	case events.AuthSignedInEvent:
		if payload, ok := event.Payload.(events.AuthPayload); ok {
			m.sidebar.SetUser(payload.User)
		}

	case events.AuthSignedOutEvent:
		m.sidebar.SetSignedOut()
		m.app.CommandService.SetSelection(app.Selection{})
		m.statusBar.SetLeftContent("")

	case events.AuthRequiredEvent:
		cmds = append(cmds, m.statusBar.ShowWarning("Sign in with /login"))

	case events.NotebooksLoadedEvent:
		if payload, ok := event.Payload.(events.NotebooksPayload); ok {
			m.sidebar.SetNotebooks(payload.Notebooks)
			m.pushSelection()
		}

	case events.SectionsLoadedEvent:
		if payload, ok := event.Payload.(events.SectionsPayload); ok {
			m.sidebar.SetSections(payload.Sections)
			m.pushSelection()
		}

	case events.PagesLoadedEvent:
		if payload, ok := event.Payload.(events.PagesPayload); ok {
			m.sidebar.SetPages(payload.Pages)
			m.pushSelection()
		}

	case events.CapturePromptEvent:
		if payload, ok := event.Payload.(events.CapturePromptPayload); ok {
			if payload.Placeholder != "" {
				m.input.SetPlaceholder(payload.Placeholder)
			}
		}

	case events.CaptureFinishedEvent:
		m.input.SetPlaceholder(chat.DefaultPlaceholder)

	case events.QueueChangedEvent:
		// History is already reflected through chat events; nothing to redraw.

	case events.QuitRequestEvent:
		cmds = append(cmds, tea.Quit)
	}

	return m, tea.Batch(cmds...)
}

// historyMessages converts stored request entries back into chat bubbles.
func historyMessages(entries []queue.Entry) []chat.Message {
	var messages []chat.Message
	for _, entry := range entries {
		messages = append(messages, chat.Message{Role: "user", Content: entry.User})
		switch entry.Status {
		case queue.StatusDone:
			messages = append(messages, chat.Message{Role: "assistant", Content: entry.AI, Markdown: true})
		case queue.StatusError:
			messages = append(messages, chat.Message{Role: "system", Content: "Failed: " + entry.Err})
		case queue.StatusNeedLogin:
			messages = append(messages, chat.Message{Role: "system", Content: "Waiting for sign-in"})
		case queue.StatusSending:
			messages = append(messages, chat.Message{Role: "system", Content: "Still sending when the panel closed"})
		}
	}
	return messages
}
