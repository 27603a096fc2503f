package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/readnote/readnote/internal/capture"
	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/review"
	"github.com/readnote/readnote/internal/tui/events"
)

// Selection is the notebook/section/page currently picked in the sidebar.
type Selection struct {
	NotebookID string
	SectionID  string
	PageID     string
	PageTitle  string
}

// CommandService handles the panel's slash commands and the multi-step
// flows behind them: page creation, section creation, note appending,
// summaries and review sessions.
type CommandService struct {
	app         *App
	eventBroker *events.Broker

	mu        sync.Mutex
	selection Selection
	quiz      *review.Flow
}

// NewCommandService creates a command service.
func NewCommandService(app *App, eventBroker *events.Broker) *CommandService {
	return &CommandService{
		app:         app,
		eventBroker: eventBroker,
	}
}

// SetSelection updates the sidebar selection the commands operate on.
func (s *CommandService) SetSelection(sel Selection) {
	s.mu.Lock()
	s.selection = sel
	s.mu.Unlock()
}

// Quiz returns the active review flow, if any.
func (s *CommandService) Quiz() *review.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

// HandleCommand routes one slash command.
func (s *CommandService) HandleCommand(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "/help":
		s.systemMessage(helpText, true)
	case "/login":
		s.handleLogin()
	case "/logout":
		s.handleLogout()
	case "/newpage":
		s.beginNewPage()
	case "/newsection":
		s.beginNewSection()
	case "/append":
		s.beginAppend()
	case "/summary":
		s.handleSummary()
	case "/review":
		s.beginReview()
	case "/clear":
		if err := s.app.Queue.Clear(); err == nil {
			s.app.NoteService.publishQueue()
		}
	case "/quit", "/exit":
		s.eventBroker.Publish(events.Event{Type: events.QuitRequestEvent})
	default:
		s.status("Unknown command: "+parts[0], "warning")
	}
}

const helpText = `**Commands**

- /newpage - create a page (asks for title, then content)
- /newsection - create a section (asks for a name)
- /append - append a note to the selected page
- /summary - summarize the selected page
- /review - quiz yourself on the selected page
- /login, /logout
- /clear - wipe local history
- /quit`

const (
	profileConfirmAttempts = 3
	profileConfirmDelay    = 2 * time.Second
)

func (s *CommandService) handleLogin() {
	loginURL, err := s.app.Auth.BeginLogin(context.Background())
	if err != nil && loginURL == "" {
		s.status("Could not start login: "+err.Error(), "error")
		return
	}
	if err != nil {
		// Browser failed to open; show the URL instead.
		s.systemMessage("Open this URL to sign in: "+loginURL, false)
	} else {
		s.systemMessage("A browser window has been opened to sign you in.", false)
	}

	steps := []capture.Step{
		{Prompt: "Paste the access token shown after sign-in:", Placeholder: "Access token...", Validate: capture.NonEmpty("token")},
	}
	s.startCapture(steps, func(values []string) {
		s.completeLogin(values[0])
	})
}

// completeLogin applies a pasted access token: the profile endpoint has to
// confirm it before it is persisted. The session cookie can still be settling
// right after the browser flow, hence the confirm retries.
func (s *CommandService) completeLogin(token string) {
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})
	defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

	if tc, ok := s.app.Client.(interface{ SetToken(string) }); ok {
		tc.SetToken(token)
	}

	var user notes.User
	var err error
	for attempt := 0; attempt < profileConfirmAttempts; attempt++ {
		if user, err = s.app.Auth.Refresh(context.Background()); err == nil {
			break
		}
		time.Sleep(profileConfirmDelay)
	}
	if err != nil {
		s.status("Could not confirm sign-in: "+err.Error(), "error")
		return
	}

	if err := s.app.Auth.HandleCallback(token, user); err != nil {
		s.status("Could not store sign-in: "+err.Error(), "error")
		return
	}

	s.eventBroker.Publish(events.Event{
		Type:    events.AuthSignedInEvent,
		Payload: events.AuthPayload{User: user},
	})
	s.status("Signed in as "+user.DisplayName, "success")
	s.app.NoteService.FlushPending()
	s.LoadNotebooks()
}

func (s *CommandService) handleLogout() {
	if err := s.app.Auth.Clear(); err != nil {
		s.status("Logout failed: "+err.Error(), "error")
		return
	}
	s.eventBroker.Publish(events.Event{Type: events.AuthSignedOutEvent})
	s.status("Signed out", "info")
}

func (s *CommandService) beginNewPage() {
	if !s.requireSignIn() {
		return
	}
	sel := s.currentSelection()
	if sel.SectionID == "" {
		s.status("Pick a section first", "warning")
		return
	}

	steps := []capture.Step{
		{Prompt: "Enter the page title:", Placeholder: "Page title...", Validate: capture.NonEmpty("title")},
		{Prompt: "Enter the page content:", Placeholder: "Page content...", Validate: capture.NonEmpty("content")},
	}
	s.startCapture(steps, func(values []string) {
		s.createPage(sel.SectionID, values[0], values[1])
	})
}

func (s *CommandService) createPage(sectionID, title, content string) {
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})
	defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

	id, err := s.app.Client.CreatePage(context.Background(), sectionID, title, content)
	if err != nil {
		s.status("Could not create page: "+err.Error(), "error")
		return
	}

	s.systemMessage("📄 Created page **"+title+"** (id "+id+")", true)
	s.LoadPages(sectionID)
}

func (s *CommandService) beginNewSection() {
	if !s.requireSignIn() {
		return
	}
	sel := s.currentSelection()
	if sel.NotebookID == "" {
		s.status("Pick a notebook first", "warning")
		return
	}

	steps := []capture.Step{
		{Prompt: "Enter the section name:", Placeholder: "Section name...", Validate: capture.NonEmpty("name")},
	}
	s.startCapture(steps, func(values []string) {
		s.createSection(sel.NotebookID, values[0])
	})
}

func (s *CommandService) createSection(notebookID, name string) {
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})
	defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

	if err := s.app.Client.CreateSection(context.Background(), notebookID, name); err != nil {
		s.status("Could not create section: "+err.Error(), "error")
		return
	}

	s.systemMessage("✅ Created section **"+name+"**", true)
	s.LoadSections(notebookID)
}

func (s *CommandService) beginAppend() {
	if !s.requireSignIn() {
		return
	}
	sel := s.currentSelection()
	if sel.PageID == "" {
		s.status("Pick a page first", "warning")
		return
	}

	steps := []capture.Step{
		{Prompt: "Enter the note to append:", Placeholder: "Note content...", Validate: capture.NonEmpty("content")},
	}
	s.startCapture(steps, func(values []string) {
		s.appendPage(sel.PageID, sel.PageTitle, values[0])
	})
}

func (s *CommandService) appendPage(pageID, pageTitle, content string) {
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})
	defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

	if err := s.app.Client.AppendPage(context.Background(), pageID, content); err != nil {
		s.status("Could not append note: "+err.Error(), "error")
		return
	}

	s.systemMessage("📄 Appended to **"+pageTitle+"**", true)
}

func (s *CommandService) handleSummary() {
	if !s.requireSignIn() {
		return
	}
	sel := s.currentSelection()
	if sel.PageID == "" {
		s.status("Pick a page first", "warning")
		return
	}

	s.systemMessage("Summarizing the selected page...", false)
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})

	go func() {
		defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

		summary, err := s.app.Client.PageSummary(context.Background(), sel.PageID)
		if err != nil {
			s.status("Could not summarize page: "+err.Error(), "error")
			return
		}
		s.systemMessage("📝 **Page summary**\n\n"+summary, true)
	}()
}

func (s *CommandService) beginReview() {
	if !s.requireSignIn() {
		return
	}
	sel := s.currentSelection()
	if sel.PageID == "" {
		s.status("Pick a page first", "warning")
		return
	}

	steps := []capture.Step{
		{Prompt: "How many questions?", Placeholder: "e.g. 5", Validate: capture.PositiveInt("question count")},
	}
	s.startCapture(steps, func(values []string) {
		n, _ := strconv.Atoi(values[0])
		s.startQuiz(sel.PageID, n)
	})
}

func (s *CommandService) startQuiz(pageID string, n int) {
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})
	defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

	questions, err := s.app.Client.ReviewQuestions(context.Background(), pageID, n)
	if err != nil {
		s.status("Could not generate questions: "+err.Error(), "error")
		return
	}

	flow, err := review.NewFlow(pageID, questions)
	if err != nil {
		s.status(err.Error(), "warning")
		return
	}

	s.mu.Lock()
	s.quiz = flow
	s.mu.Unlock()

	s.presentQuestion(flow)
}

func (s *CommandService) presentQuestion(flow *review.Flow) {
	q, i, err := flow.Current()
	if err != nil {
		return
	}
	s.systemMessage(
		"📚 **Review** (question "+strconv.Itoa(i+1)+" of "+strconv.Itoa(flow.Total())+")\n\n"+q.Question,
		true,
	)
	s.eventBroker.Publish(events.Event{
		Type:    events.CapturePromptEvent,
		Payload: events.CapturePromptPayload{Placeholder: "Your answer..."},
	})
}

// HandleQuizAnswer feeds one answer into the active review flow. After the
// last reveal, the buffered answers go out in a single analysis call.
func (s *CommandService) HandleQuizAnswer(answer string) {
	s.mu.Lock()
	flow := s.quiz
	s.mu.Unlock()
	if flow == nil {
		return
	}

	reveal, err := flow.SubmitAnswer(strings.TrimSpace(answer))
	if err != nil {
		if errors.Is(err, review.ErrEmptyAnswer) {
			s.status("Please enter an answer", "warning")
		}
		return
	}

	s.eventBroker.Publish(events.Event{
		Type:    events.UserMessageEvent,
		Payload: events.MessagePayload{Role: "user", Content: reveal.UserAnswer},
	})
	s.systemMessage(
		"📝 **Answer** (question "+strconv.Itoa(reveal.Index+1)+" of "+strconv.Itoa(reveal.Total)+")\n\n"+
			"**Yours:** "+reveal.UserAnswer+"\n\n"+
			"**Correct:** "+reveal.CorrectAnswer+"\n\n"+
			"**Why:** "+reveal.Explanation,
		true,
	)

	switch flow.Advance() {
	case review.Answering:
		s.presentQuestion(flow)
	case review.Submitting:
		s.systemMessage("✅ All questions answered. Analyzing your results...", false)
		go s.submitQuiz(flow)
	}
}

func (s *CommandService) submitQuiz(flow *review.Flow) {
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})
	defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

	suggestions, err := s.app.Client.AnalyzeAnswers(context.Background(), flow.PageID(), flow.Answers())

	flow.Finish()
	s.mu.Lock()
	s.quiz = nil
	s.mu.Unlock()

	if err != nil {
		s.status("Could not analyze answers: "+err.Error(), "error")
		return
	}
	s.systemMessage("📊 **Study report**\n\n"+suggestions, true)
	s.eventBroker.Publish(events.Event{
		Type:    events.CapturePromptEvent,
		Payload: events.CapturePromptPayload{Placeholder: "Type a message..."},
	})
}

// CancelQuiz abandons the active review flow.
func (s *CommandService) CancelQuiz() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return false
	}
	s.quiz.Finish()
	s.quiz = nil
	return true
}

// LoadNotebooks fetches the notebook list and publishes it.
func (s *CommandService) LoadNotebooks() {
	go func() {
		notebooks, err := s.app.Client.Notebooks(context.Background())
		if err != nil {
			s.loadError("notebooks", err)
			return
		}
		s.eventBroker.Publish(events.Event{
			Type:    events.NotebooksLoadedEvent,
			Payload: events.NotebooksPayload{Notebooks: notebooks},
		})
		if len(notebooks) > 0 {
			s.LoadSections(notebooks[0].ID)
		}
	}()
}

// LoadSections fetches the sections of a notebook and publishes them.
func (s *CommandService) LoadSections(notebookID string) {
	go func() {
		sections, err := s.app.Client.Sections(context.Background(), notebookID)
		if err != nil {
			s.loadError("sections", err)
			return
		}
		s.eventBroker.Publish(events.Event{
			Type:    events.SectionsLoadedEvent,
			Payload: events.SectionsPayload{NotebookID: notebookID, Sections: sections},
		})
		if len(sections) > 0 {
			s.LoadPages(sections[0].ID)
		}
	}()
}

// LoadPages fetches the pages of a section and publishes them.
func (s *CommandService) LoadPages(sectionID string) {
	go func() {
		pages, err := s.app.Client.Pages(context.Background(), sectionID)
		if err != nil {
			s.loadError("pages", err)
			return
		}
		s.eventBroker.Publish(events.Event{
			Type:    events.PagesLoadedEvent,
			Payload: events.PagesPayload{SectionID: sectionID, Pages: pages},
		})
	}()
}

func (s *CommandService) loadError(what string, err error) {
	if errors.Is(err, notes.ErrUnauthorized) {
		s.eventBroker.Publish(events.Event{Type: events.AuthRequiredEvent})
		s.status("Sign in to load "+what, "warning")
		return
	}
	s.status("Could not load "+what+": "+err.Error(), "error")
}

func (s *CommandService) startCapture(steps []capture.Step, done func(values []string)) {
	first, err := s.app.Capture.Begin(steps, func(values []string) {
		s.eventBroker.Publish(events.Event{Type: events.CaptureFinishedEvent})
		go done(values)
	})
	if err != nil {
		s.status(err.Error(), "warning")
		return
	}

	s.promptStep(first)
}

func (s *CommandService) promptStep(step capture.Step) {
	s.systemMessage(step.Prompt, false)
	s.eventBroker.Publish(events.Event{
		Type: events.CapturePromptEvent,
		Payload: events.CapturePromptPayload{
			Prompt:      step.Prompt,
			Placeholder: step.Placeholder,
		},
	})
}

// HandleCaptureInput feeds one submit into the capture session. Returns
// true when the input was consumed by an active flow.
func (s *CommandService) HandleCaptureInput(input string) bool {
	out := s.app.Capture.Submit(input)
	if !out.Consumed {
		return false
	}

	if out.Reprompt != "" {
		s.systemMessage(out.Reprompt, false)
		return true
	}

	s.eventBroker.Publish(events.Event{
		Type:    events.UserMessageEvent,
		Payload: events.MessagePayload{Role: "user", Content: out.Value},
	})

	if out.Next != nil {
		s.promptStep(*out.Next)
	}
	return true
}

// CancelCapture abandons the active capture flow, if any.
func (s *CommandService) CancelCapture() bool {
	if !s.app.Capture.Cancel() {
		return false
	}
	s.status("Cancelled", "info")
	s.eventBroker.Publish(events.Event{Type: events.CaptureFinishedEvent})
	return true
}

func (s *CommandService) requireSignIn() bool {
	if s.app.Auth.SignedIn() {
		return true
	}
	s.eventBroker.Publish(events.Event{Type: events.AuthRequiredEvent})
	s.status("Sign in first with /login", "warning")
	return false
}

func (s *CommandService) currentSelection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *CommandService) systemMessage(content string, markdown bool) {
	s.eventBroker.Publish(events.Event{
		Type:    events.SystemMessageEvent,
		Payload: events.MessagePayload{Role: "system", Content: content, Markdown: markdown},
	})
}

func (s *CommandService) status(message, level string) {
	s.eventBroker.Publish(events.Event{
		Type:    events.StatusMessageEvent,
		Payload: events.StatusMessagePayload{Message: message, Type: level},
	})
}

// CommandNames lists the slash commands for tab completion.
func CommandNames() []string {
	return lo.Map([]string{
		"help", "login", "logout", "newpage", "newsection",
		"append", "summary", "review", "clear", "quit",
	}, func(name string, _ int) string {
		return "/" + name
	})
}
