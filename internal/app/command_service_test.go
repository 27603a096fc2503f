package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/readnote/readnote/internal/auth"
	"github.com/readnote/readnote/internal/capture"
	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/queue"
	"github.com/readnote/readnote/internal/tui/events"
)

func newTestApp(t *testing.T, client notes.Client, signedIn bool) (*App, *events.Broker) {
	t.Helper()
	keyring.MockInit()

	dir := t.TempDir()
	broker := events.NewBroker()

	a := &App{Client: client, EventBroker: broker}
	a.Auth = auth.NewManager(client, dir)
	if signedIn {
		require.NoError(t, a.Auth.HandleCallback("opaque-token", notes.User{ID: "u-1", DisplayName: "Ada"}))
	} else {
		require.NoError(t, a.Auth.Clear())
	}

	a.Queue = queue.NewTracker(dir)
	a.Capture = capture.NewSession()
	a.NoteService = NewNoteService(client, a.Auth, a.Queue, broker)
	a.ChatService = NewChatService(client, a.Auth, a.Queue, broker)
	a.CommandService = NewCommandService(a, broker)
	a.Router = NewUserInputRouter(a)
	return a, broker
}

func TestCommandService_CreatePageFlow(t *testing.T) {
	client := &fakeClient{pages: []notes.Page{{ID: "page-1", Title: "Intro"}}}
	a, broker := newTestApp(t, client, true)
	pagesLoaded := broker.Subscribe(events.PagesLoadedEvent)

	svc := a.CommandService
	svc.SetSelection(Selection{NotebookID: "nb-1", SectionID: "sec-1"})

	svc.HandleCommand("/newpage")
	require.True(t, svc.HandleCaptureInput("My Title"))
	require.True(t, svc.HandleCaptureInput("Some content"))

	select {
	case <-pagesLoaded:
	case <-time.After(time.Second):
		t.Fatal("expected a page reload after the create call")
	}

	assert.Equal(t, 1, client.createPageCount())
	section, title, content := client.createdPage()
	assert.Equal(t, "sec-1", section)
	assert.Equal(t, "My Title", title)
	assert.Equal(t, "Some content", content)
	assert.Equal(t, 1, client.pagesCount())
}

func TestCommandService_QuizSubmitsOneAnalysisCall(t *testing.T) {
	client := &fakeClient{
		questions: []notes.Question{
			{Question: "Q1", Answer: "A1", Explanation: "E1"},
			{Question: "Q2", Answer: "A2", Explanation: "E2"},
		},
		suggestions: "study more",
	}
	a, _ := newTestApp(t, client, true)

	svc := a.CommandService
	svc.SetSelection(Selection{NotebookID: "nb-1", SectionID: "sec-1", PageID: "page-1", PageTitle: "Intro"})

	svc.HandleCommand("/review")
	require.True(t, svc.HandleCaptureInput("2"))

	require.Eventually(t, func() bool {
		return svc.Quiz() != nil
	}, time.Second, 10*time.Millisecond)

	svc.HandleQuizAnswer("my first")
	require.NotNil(t, svc.Quiz())
	svc.HandleQuizAnswer("my second")

	require.Eventually(t, func() bool {
		return svc.Quiz() == nil
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, client.analyzeCount())
	answers := client.analyzedAnswers()
	require.Len(t, answers, 2)
	assert.Equal(t, "Q1", answers[0].Question)
	assert.Equal(t, "my first", answers[0].UserAnswer)
	assert.Equal(t, "my second", answers[1].UserAnswer)
}

func TestCommandService_CompleteLoginConfirmsAndFlushes(t *testing.T) {
	client := &fakeClient{note: "## Note\nGenerated."}
	a, broker := newTestApp(t, client, false)
	signedIn := broker.Subscribe(events.AuthSignedInEvent)

	// A request captured while signed out waits in the queue.
	_, err := a.NoteService.Send(context.Background(), "queued text", "https://example.com")
	require.NoError(t, err)

	a.CommandService.completeLogin("pasted-token")

	select {
	case event := <-signedIn:
		payload, ok := event.Payload.(events.AuthPayload)
		require.True(t, ok)
		assert.Equal(t, "Ada", payload.User.DisplayName)
	case <-time.After(time.Second):
		t.Fatal("expected a signed-in event")
	}

	assert.True(t, a.Auth.SignedIn())
	assert.Equal(t, "pasted-token", client.currentToken())

	require.Eventually(t, func() bool {
		return client.noteCount() == 1
	}, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return client.notebooksCount() == 1
	}, time.Second, 10*time.Millisecond)
}
