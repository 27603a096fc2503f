package app

import (
	"time"

	"github.com/readnote/readnote/internal/auth"
	"github.com/readnote/readnote/internal/capture"
	"github.com/readnote/readnote/internal/config"
	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/queue"
	"github.com/readnote/readnote/internal/tui/events"
)

// App holds all the core services and business logic.
type App struct {
	Config  *config.Manager
	Client  notes.Client
	Auth    *auth.Manager
	Queue   *queue.Tracker
	Capture *capture.Session

	NoteService    *NoteService
	ChatService    *ChatService
	CommandService *CommandService
	Router         *UserInputRouter

	EventBroker *events.Broker
}

// New creates an app with all services initialized.
func New(cfg *config.Manager, eventBroker *events.Broker) *App {
	dataDir := cfg.DataDir()
	timeout := time.Duration(cfg.Get().RequestTimeoutSeconds) * time.Second

	client := notes.NewHTTPClient(cfg.Get().BackendURL, timeout)

	app := &App{
		Config:      cfg,
		Client:      client,
		EventBroker: eventBroker,
	}

	app.Auth = auth.NewManager(client, dataDir)
	client.SetToken(app.Auth.Token())

	app.Queue = queue.NewTracker(dataDir)
	app.Capture = capture.NewSession()

	app.NoteService = NewNoteService(client, app.Auth, app.Queue, eventBroker)
	app.ChatService = NewChatService(client, app.Auth, app.Queue, eventBroker)
	app.CommandService = NewCommandService(app, eventBroker)
	app.Router = NewUserInputRouter(app)

	return app
}
