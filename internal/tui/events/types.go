package events

import (
	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/queue"
)

// EventType identifies the type of event.
type EventType string

const (
	// Queue events
	QueueChangedEvent EventType = "queue.changed"

	// Auth events
	AuthSignedInEvent  EventType = "auth.signed_in"
	AuthSignedOutEvent EventType = "auth.signed_out"
	AuthRequiredEvent  EventType = "auth.required"

	// Chat events
	UserMessageEvent      EventType = "message.user"
	AssistantMessageEvent EventType = "message.assistant"
	SystemMessageEvent    EventType = "message.system"

	// Busy indicator around outbound calls
	BusyStartEvent EventType = "busy.start"
	BusyEndEvent   EventType = "busy.end"

	// Notebook picker events
	NotebooksLoadedEvent EventType = "notebooks.loaded"
	SectionsLoadedEvent  EventType = "sections.loaded"
	PagesLoadedEvent     EventType = "pages.loaded"

	// Input capture events
	CapturePromptEvent   EventType = "capture.prompt"
	CaptureFinishedEvent EventType = "capture.finished"

	// UI events
	StatusMessageEvent EventType = "ui.status"

	// App events
	QuitRequestEvent EventType = "app.quit"
)

// Event represents an event in the system.
type Event struct {
	Type    EventType
	Payload interface{}
}

// Event payload types

type QueuePayload struct {
	Entries []queue.Entry
}

type AuthPayload struct {
	User notes.User
}

// MessagePayload carries one chat bubble. Markdown bubbles are rendered
// through glamour by the message list.
type MessagePayload struct {
	Role     string // "user", "assistant", "system"
	Content  string
	Markdown bool
}

type StatusMessagePayload struct {
	Message string
	Type    string // "info", "warning", "error", "success"
}

type NotebooksPayload struct {
	Notebooks []notes.Notebook
}

type SectionsPayload struct {
	NotebookID string
	Sections   []notes.Section
}

type PagesPayload struct {
	SectionID string
	Pages     []notes.Page
}

// CapturePromptPayload tells the input box what the active capture step wants.
type CapturePromptPayload struct {
	Prompt      string
	Placeholder string
}
