package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_EnqueueAndMarkDone(t *testing.T) {
	tracker := NewTracker(t.TempDir())

	entry, err := tracker.Enqueue("selected text", "https://example.com", StatusSending)
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	assert.Equal(t, StatusSending, entry.Status)
	assert.False(t, entry.CreatedAt.IsZero())

	require.NoError(t, tracker.MarkDone(entry.ID, "the note"))

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusDone, entries[0].Status)
	assert.Equal(t, "the note", entries[0].AI)
	assert.False(t, entries[0].CompletedAt.Before(entries[0].CreatedAt))
}

func TestTracker_MarkError(t *testing.T) {
	tracker := NewTracker(t.TempDir())

	entry, err := tracker.Enqueue("text", "", StatusSending)
	require.NoError(t, err)

	require.NoError(t, tracker.MarkError(entry.ID, "HTTP 500: Internal Server Error"))

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusError, entries[0].Status)
	assert.Equal(t, "HTTP 500: Internal Server Error", entries[0].Err)
}

func TestTracker_TerminalOnce(t *testing.T) {
	tracker := NewTracker(t.TempDir())

	entry, err := tracker.Enqueue("text", "", StatusSending)
	require.NoError(t, err)

	require.NoError(t, tracker.MarkDone(entry.ID, "first"))
	// Already terminal; must not flip again.
	require.NoError(t, tracker.MarkError(entry.ID, "late failure"))

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusDone, entries[0].Status)
	assert.Equal(t, "first", entries[0].AI)
	assert.Empty(t, entries[0].Err)
}

func TestTracker_UnknownIDIsNoOp(t *testing.T) {
	tracker := NewTracker(t.TempDir())

	_, err := tracker.Enqueue("text", "", StatusSending)
	require.NoError(t, err)

	require.NoError(t, tracker.MarkDone("01ARZ3NDEKTSV4RRFFQ69G5FAV", "note"))

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusSending, entries[0].Status)
}

func TestTracker_NeedLoginNeverFlips(t *testing.T) {
	tracker := NewTracker(t.TempDir())

	entry, err := tracker.Enqueue("text", "", StatusNeedLogin)
	require.NoError(t, err)

	require.NoError(t, tracker.MarkDone(entry.ID, "note"))

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusNeedLogin, entries[0].Status)
}

func TestTracker_DuplicateTextsStayDistinct(t *testing.T) {
	tracker := NewTracker(t.TempDir())

	first, err := tracker.Enqueue("same text", "", StatusSending)
	require.NoError(t, err)
	second, err := tracker.Enqueue("same text", "", StatusSending)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	require.NoError(t, tracker.MarkDone(second.ID, "note for second"))

	entries := tracker.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, StatusSending, entries[0].Status)
	assert.Equal(t, StatusDone, entries[1].Status)
	assert.Equal(t, "note for second", entries[1].AI)
}

func TestTracker_PersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	tracker := NewTracker(dir)
	entry, err := tracker.Enqueue("text", "https://example.com", StatusSending)
	require.NoError(t, err)
	require.NoError(t, tracker.MarkDone(entry.ID, "note"))

	reopened := NewTracker(dir)
	entries := reopened.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, StatusDone, entries[0].Status)
	assert.Equal(t, "note", entries[0].AI)
}

func TestTracker_Record(t *testing.T) {
	tracker := NewTracker(t.TempDir())
	tracker.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	entry, err := tracker.Record("question", "", "reply")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, entry.Status)
	assert.Equal(t, "reply", entry.AI)
	assert.Equal(t, entry.CreatedAt, entry.CompletedAt)
}

func TestTracker_SubscribeTicksOnChange(t *testing.T) {
	tracker := NewTracker(t.TempDir())
	sub := tracker.Subscribe()

	_, err := tracker.Enqueue("text", "", StatusSending)
	require.NoError(t, err)

	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}
