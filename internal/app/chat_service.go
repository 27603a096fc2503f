package app

import (
	"context"
	"errors"

	"github.com/readnote/readnote/internal/auth"
	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/queue"
	"github.com/readnote/readnote/internal/tui/events"
)

// ChatService runs dialogue rounds against the selected page and surfaces
// the replies as chat bubbles.
type ChatService struct {
	client      notes.Client
	auth        *auth.Manager
	queue       *queue.Tracker
	eventBroker *events.Broker
}

// NewChatService creates a chat service.
func NewChatService(client notes.Client, authMgr *auth.Manager, tracker *queue.Tracker, eventBroker *events.Broker) *ChatService {
	return &ChatService{
		client:      client,
		auth:        authMgr,
		queue:       tracker,
		eventBroker: eventBroker,
	}
}

// HandleUserMessage sends one dialogue round in the background.
func (s *ChatService) HandleUserMessage(text, pageID string) {
	s.eventBroker.Publish(events.Event{
		Type:    events.UserMessageEvent,
		Payload: events.MessagePayload{Role: "user", Content: text},
	})
	s.eventBroker.Publish(events.Event{Type: events.BusyStartEvent})

	go func() {
		defer s.eventBroker.Publish(events.Event{Type: events.BusyEndEvent})

		replay, err := s.client.Dialogue(context.Background(), text, pageID)
		if err != nil {
			if errors.Is(err, notes.ErrUnauthorized) {
				// Session expired. Clear local auth state and re-prompt.
				_ = s.auth.Clear()
				s.eventBroker.Publish(events.Event{Type: events.AuthSignedOutEvent})
				s.eventBroker.Publish(events.Event{
					Type: events.StatusMessageEvent,
					Payload: events.StatusMessagePayload{
						Message: "Session expired, please sign in again",
						Type:    "error",
					},
				})
				return
			}
			s.eventBroker.Publish(events.Event{
				Type: events.StatusMessageEvent,
				Payload: events.StatusMessagePayload{
					Message: "Request failed: " + err.Error(),
					Type:    "error",
				},
			})
			return
		}

		s.eventBroker.Publish(events.Event{
			Type:    events.AssistantMessageEvent,
			Payload: events.MessagePayload{Role: "assistant", Content: replay, Markdown: true},
		})

		// Mirror the round into the durable conversation log so the panel
		// can rehydrate it next session.
		_, _ = s.queue.Record(text, "", replay)
		s.eventBroker.Publish(events.Event{
			Type:    events.QueueChangedEvent,
			Payload: events.QueuePayload{Entries: s.queue.Entries()},
		})
	}()
}
