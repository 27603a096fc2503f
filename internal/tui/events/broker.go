package events

import (
	"sync"
)

// Broker distributes events between the services and the panel. It is the
// cross-context signal path: storage writes, auth changes and chat traffic
// all arrive at the UI through here.
type Broker struct {
	subscribers map[EventType][]chan Event
	mu          sync.RWMutex
	bufferSize  int
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  16,
	}
}

// Subscribe creates a subscription to specific event types.
// With no types given it subscribes to everything.
func (b *Broker) Subscribe(eventTypes ...EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)

	if len(eventTypes) == 0 {
		eventTypes = []EventType{"*"}
	}

	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}

	return ch
}

// Publish sends an event to all subscribers. Full channels are skipped
// rather than blocked on.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
		}
	}

	for _, ch := range b.subscribers["*"] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishAsync sends an event without waiting for delivery.
func (b *Broker) PublishAsync(event Event) {
	go b.Publish(event)
}

// Clear removes all subscriptions.
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			close(ch)
		}
	}

	b.subscribers = make(map[EventType][]chan Event)
}
