package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/readnote/readnote/internal/auth"
	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/queue"
	"github.com/readnote/readnote/internal/tui/events"
)

// fakeClient implements notes.Client with canned responses. Counters are
// mutex-guarded because the services call it from background goroutines.
type fakeClient struct {
	mu sync.Mutex

	note        string
	noteErr     error
	noteCalls   int
	dialogueErr error
	replay      string

	token       string
	notebooks   []notes.Notebook
	sections    []notes.Section
	pages       []notes.Page
	questions   []notes.Question
	suggestions string

	notebooksCalls  int
	pagesCalls      int
	createPageCalls int
	createdSection  string
	createdTitle    string
	createdContent  string
	analyzeCalls    int
	analyzed        []notes.Answer
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeClient) Login(ctx context.Context) (string, error) {
	return "https://auth.example", nil
}

func (f *fakeClient) Profile(ctx context.Context) (notes.User, error) {
	return notes.User{ID: "u-1", DisplayName: "Ada"}, nil
}

func (f *fakeClient) GenerateNote(ctx context.Context, text, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteCalls++
	return f.note, f.noteErr
}

func (f *fakeClient) Dialogue(ctx context.Context, userPrint, pageID string) (string, error) {
	return f.replay, f.dialogueErr
}

func (f *fakeClient) Notebooks(ctx context.Context) ([]notes.Notebook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notebooksCalls++
	return f.notebooks, nil
}

func (f *fakeClient) Sections(ctx context.Context, notebookID string) ([]notes.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sections, nil
}

func (f *fakeClient) Pages(ctx context.Context, sectionID string) ([]notes.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pagesCalls++
	return f.pages, nil
}

func (f *fakeClient) CreatePage(ctx context.Context, sectionID, title, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createPageCalls++
	f.createdSection = sectionID
	f.createdTitle = title
	f.createdContent = content
	return "page-new", nil
}

func (f *fakeClient) AppendPage(ctx context.Context, pageID, content string) error {
	return nil
}

func (f *fakeClient) CreateSection(ctx context.Context, notebookID, name string) error {
	return nil
}

func (f *fakeClient) PageSummary(ctx context.Context, pageID string) (string, error) {
	return "", nil
}

func (f *fakeClient) ReviewQuestions(ctx context.Context, pageID string, n int) ([]notes.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.questions, nil
}

func (f *fakeClient) AnalyzeAnswers(ctx context.Context, pageID string, answers []notes.Answer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzeCalls++
	f.analyzed = append([]notes.Answer(nil), answers...)
	return f.suggestions, nil
}

func (f *fakeClient) noteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.noteCalls
}

func (f *fakeClient) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeClient) createPageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createPageCalls
}

func (f *fakeClient) createdPage() (section, title, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createdSection, f.createdTitle, f.createdContent
}

func (f *fakeClient) pagesCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pagesCalls
}

func (f *fakeClient) notebooksCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notebooksCalls
}

func (f *fakeClient) analyzeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analyzeCalls
}

func (f *fakeClient) analyzedAnswers() []notes.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notes.Answer(nil), f.analyzed...)
}

func newTestNoteService(t *testing.T, client notes.Client, signedIn bool) (*NoteService, *queue.Tracker, *events.Broker) {
	t.Helper()
	keyring.MockInit()

	dir := t.TempDir()
	authMgr := auth.NewManager(client, dir)
	if signedIn {
		require.NoError(t, authMgr.HandleCallback("opaque-token", notes.User{ID: "u-1", DisplayName: "Ada"}))
	} else {
		require.NoError(t, authMgr.Clear())
	}

	tracker := queue.NewTracker(dir)
	broker := events.NewBroker()
	return NewNoteService(client, authMgr, tracker, broker), tracker, broker
}

func TestNoteService_SignedOutQueuesWithoutNetworkCall(t *testing.T) {
	client := &fakeClient{note: "should not be used"}
	svc, tracker, broker := newTestNoteService(t, client, false)
	authEvents := broker.Subscribe(events.AuthRequiredEvent)

	entry, err := svc.Send(context.Background(), "selected text", "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, queue.StatusNeedLogin, entry.Status)
	assert.Zero(t, client.noteCount())

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, queue.StatusNeedLogin, entries[0].Status)

	select {
	case <-authEvents:
	case <-time.After(time.Second):
		t.Fatal("expected an auth-required event")
	}
}

func TestNoteService_SignedInEndsInDone(t *testing.T) {
	client := &fakeClient{note: "## Note\nGenerated."}
	svc, tracker, _ := newTestNoteService(t, client, true)

	entry, err := svc.Send(context.Background(), "selected text", "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, queue.StatusDone, entry.Status)
	assert.Equal(t, "## Note\nGenerated.", entry.AI)
	assert.Equal(t, 1, client.noteCount())
	assert.False(t, entry.CompletedAt.Before(entry.CreatedAt))

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, queue.StatusDone, entries[0].Status)
}

func TestNoteService_BackendFailureEndsInError(t *testing.T) {
	client := &fakeClient{noteErr: errors.New("HTTP 500: Internal Server Error")}
	svc, tracker, _ := newTestNoteService(t, client, true)

	entry, err := svc.Send(context.Background(), "selected text", "")
	require.Error(t, err)

	assert.Equal(t, queue.StatusError, entry.Status)
	assert.Contains(t, entry.Err, "500")

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, queue.StatusError, entries[0].Status)
}

func TestNoteService_RejectsEmptySelection(t *testing.T) {
	client := &fakeClient{}
	svc, tracker, _ := newTestNoteService(t, client, true)

	_, err := svc.Send(context.Background(), "   ", "")
	require.Error(t, err)
	assert.Empty(t, tracker.Entries())
}

func TestNoteService_FlushPendingResendsQueuedRequests(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	client := &fakeClient{note: "## Note\nGenerated."}
	authMgr := auth.NewManager(client, dir)
	require.NoError(t, authMgr.Clear())
	tracker := queue.NewTracker(dir)
	broker := events.NewBroker()
	svc := NewNoteService(client, authMgr, tracker, broker)

	_, err := svc.Send(context.Background(), "queued text", "https://example.com")
	require.NoError(t, err)
	require.Equal(t, 0, client.noteCount())

	require.NoError(t, authMgr.HandleCallback("opaque-token", notes.User{ID: "u-1", DisplayName: "Ada"}))
	svc.FlushPending()

	require.Eventually(t, func() bool {
		for _, e := range tracker.Entries() {
			if e.Status == queue.StatusDone {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, client.noteCount())
}

func TestChatService_ExpiredSessionClearsAuth(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	client := &fakeClient{dialogueErr: notes.ErrUnauthorized}
	authMgr := auth.NewManager(client, dir)
	require.NoError(t, authMgr.HandleCallback("opaque-token", notes.User{ID: "u-1"}))
	require.True(t, authMgr.SignedIn())

	broker := events.NewBroker()
	signedOut := broker.Subscribe(events.AuthSignedOutEvent)

	svc := NewChatService(client, authMgr, queue.NewTracker(dir), broker)
	svc.HandleUserMessage("hello", "page-1")

	select {
	case <-signedOut:
	case <-time.After(time.Second):
		t.Fatal("expected a signed-out event")
	}
	assert.False(t, authMgr.SignedIn())
}

func TestChatService_ReplyRecordedInHistory(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	client := &fakeClient{replay: "the reply"}
	authMgr := auth.NewManager(client, dir)
	tracker := queue.NewTracker(dir)
	broker := events.NewBroker()
	done := broker.Subscribe(events.BusyEndEvent)

	svc := NewChatService(client, authMgr, tracker, broker)
	svc.HandleUserMessage("hello", "page-1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected the round to finish")
	}

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, queue.StatusDone, entries[0].Status)
	assert.Equal(t, "hello", entries[0].User)
	assert.Equal(t, "the reply", entries[0].AI)
}
