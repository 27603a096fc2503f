package app

import (
	"context"
	"errors"
	"strings"

	"github.com/readnote/readnote/internal/auth"
	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/queue"
	"github.com/readnote/readnote/internal/tui/events"
)

// NoteService turns selected text into a tracked note request: append a
// queue entry, call the backend, flip the entry to a terminal status.
type NoteService struct {
	client      notes.Client
	auth        *auth.Manager
	queue       *queue.Tracker
	eventBroker *events.Broker
}

// NewNoteService creates a note service.
func NewNoteService(client notes.Client, authMgr *auth.Manager, tracker *queue.Tracker, eventBroker *events.Broker) *NoteService {
	return &NoteService{
		client:      client,
		auth:        authMgr,
		queue:       tracker,
		eventBroker: eventBroker,
	}
}

// Send tracks and executes one note request. Signed out, the entry is
// recorded as need_login and no network call is made. Otherwise the entry
// goes through sending and ends in done or error. The returned entry
// reflects the final state; err is the backend failure, if any.
func (s *NoteService) Send(ctx context.Context, text, source string) (queue.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return queue.Entry{}, errors.New("nothing selected")
	}

	if !s.auth.SignedIn() {
		entry, err := s.queue.Enqueue(text, source, queue.StatusNeedLogin)
		if err != nil {
			return queue.Entry{}, err
		}
		s.publishQueue()
		s.eventBroker.Publish(events.Event{Type: events.AuthRequiredEvent})
		s.eventBroker.Publish(events.Event{
			Type: events.StatusMessageEvent,
			Payload: events.StatusMessagePayload{
				Message: "Sign in to generate notes",
				Type:    "warning",
			},
		})
		return entry, nil
	}

	entry, err := s.queue.Enqueue(text, source, queue.StatusSending)
	if err != nil {
		return queue.Entry{}, err
	}
	s.publishQueue()

	note, err := s.client.GenerateNote(ctx, text, source)
	if err != nil {
		_ = s.queue.MarkError(entry.ID, err.Error())
		s.publishQueue()
		return s.find(entry.ID), err
	}

	_ = s.queue.MarkDone(entry.ID, note)
	s.publishQueue()
	return s.find(entry.ID), nil
}

// SendAsync runs Send in the background for panel-originated requests.
func (s *NoteService) SendAsync(text, source string) {
	go func() {
		_, _ = s.Send(context.Background(), text, source)
	}()
}

// FlushPending resends every request that was queued while signed out. The
// original need_login entries stay in the history; each resend is a fresh
// entry.
func (s *NoteService) FlushPending() {
	for _, entry := range s.queue.Entries() {
		if entry.Status == queue.StatusNeedLogin {
			s.SendAsync(entry.User, entry.Source)
		}
	}
}

func (s *NoteService) find(id string) queue.Entry {
	for _, e := range s.queue.Entries() {
		if e.ID == id {
			return e
		}
	}
	return queue.Entry{}
}

func (s *NoteService) publishQueue() {
	s.eventBroker.Publish(events.Event{
		Type:    events.QueueChangedEvent,
		Payload: events.QueuePayload{Entries: s.queue.Entries()},
	})
}
