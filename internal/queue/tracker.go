package queue

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/readnote/readnote/internal/state"
)

// Tracker is the durable record of note requests. It appends one entry per
// user action, flips it to a terminal status when the backend answers, and is
// what the panel reads to render history.
//
// The list is append-only and persisted in full on every mutation. Entries
// are never deleted here; unbounded growth is accepted.
type Tracker struct {
	store *state.Store[[]Entry]
	now   func() time.Time
}

// NewTracker creates a tracker persisted under dataDir.
func NewTracker(dataDir string) *Tracker {
	return &Tracker{
		store: state.NewStore(filepath.Join(dataDir, "conversations.json"), []Entry{}),
		now:   time.Now,
	}
}

// Enqueue appends a new entry with the given initial status and returns it.
func (t *Tracker) Enqueue(text, source string, status Status) (Entry, error) {
	entry := Entry{
		ID:        ulid.Make().String(),
		User:      text,
		Source:    source,
		Status:    status,
		CreatedAt: t.now(),
	}

	err := t.store.Update(func(entries []Entry) []Entry {
		return append(entries, entry)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to persist queue entry: %w", err)
	}

	return entry, nil
}

// MarkDone flips the entry with the given ID from sending to done and
// attaches the backend note. An unknown ID, or an entry no longer in
// sending, leaves the list unchanged.
func (t *Tracker) MarkDone(id, note string) error {
	return t.markTerminal(id, func(e *Entry) {
		e.Status = StatusDone
		e.AI = note
	})
}

// MarkError flips the entry with the given ID from sending to error.
func (t *Tracker) MarkError(id, msg string) error {
	return t.markTerminal(id, func(e *Entry) {
		e.Status = StatusError
		e.Err = msg
	})
}

func (t *Tracker) markTerminal(id string, apply func(*Entry)) error {
	return t.store.Update(func(entries []Entry) []Entry {
		for i := range entries {
			if entries[i].ID != id {
				continue
			}
			if entries[i].Status != StatusSending {
				// Already terminal (or never sent). Drop the update.
				return entries
			}
			apply(&entries[i])
			entries[i].CompletedAt = t.now()
			return entries
		}
		// No match. Drop the update.
		return entries
	})
}

// Record appends an already-completed entry, used for dialogue rounds that
// never pass through sending.
func (t *Tracker) Record(text, source, note string) (Entry, error) {
	now := t.now()
	entry := Entry{
		ID:          ulid.Make().String(),
		User:        text,
		Source:      source,
		Status:      StatusDone,
		CreatedAt:   now,
		CompletedAt: now,
		AI:          note,
	}

	err := t.store.Update(func(entries []Entry) []Entry {
		return append(entries, entry)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to persist queue entry: %w", err)
	}

	return entry, nil
}

// Entries returns the full list in insertion (chronological) order.
func (t *Tracker) Entries() []Entry {
	entries := t.store.Get()
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Subscribe returns a channel that ticks after every persisted change.
// This is the storage change notification the panel refreshes on.
func (t *Tracker) Subscribe() <-chan struct{} {
	return t.store.Subscribe()
}

// Clear wipes the history.
func (t *Tracker) Clear() error {
	return t.store.Clear()
}
