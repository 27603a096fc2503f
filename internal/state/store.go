package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// Store is a simple persistent value that keeps data in memory and on disk.
// Every mutation rewrites the whole file; subscribers are notified after each
// successful write, which is how the panel refreshes without polling.
//
// Last-writer-wins. There is no cross-process transaction around the
// read-modify-write cycle; a single writer per store is assumed.
type Store[T any] struct {
	mu       sync.RWMutex
	data     T
	filepath string
	defaults T

	subMu sync.Mutex
	subs  []chan struct{}
}

// NewStore creates a persistent store backed by the given file.
func NewStore[T any](filepath string, defaults T) *Store[T] {
	s := &Store[T]{
		filepath: filepath,
		defaults: defaults,
		data:     defaults,
	}

	s.load()

	return s
}

// Get returns the current state.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Set replaces the state and persists to disk.
func (s *Store[T]) Set(data T) error {
	s.mu.Lock()
	s.data = data
	err := s.save()
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// Update applies a function to the state and persists to disk.
func (s *Store[T]) Update(fn func(T) T) error {
	s.mu.Lock()
	s.data = fn(s.data)
	err := s.save()
	s.mu.Unlock()

	if err == nil {
		s.notify()
	}
	return err
}

// Subscribe returns a channel that receives a tick after every successful
// write. The channel has a small buffer; a slow reader coalesces ticks.
func (s *Store[T]) Subscribe() <-chan struct{} {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Clear resets to defaults and removes the file.
func (s *Store[T]) Clear() error {
	s.mu.Lock()
	s.data = s.defaults
	err := os.Remove(s.filepath)
	s.mu.Unlock()

	if err != nil && !os.IsNotExist(err) {
		return err
	}
	s.notify()
	return nil
}

func (s *Store[T]) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber already has a pending tick.
		}
	}
}

// load reads from disk if the file exists.
func (s *Store[T]) load() {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		// File doesn't exist or can't be read, use defaults.
		s.data = s.defaults
		return
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		// Corrupt file, use defaults.
		s.data = s.defaults
	}
}

// save writes to disk. Caller holds the write lock.
func (s *Store[T]) save() error {
	dir := filepath.Dir(s.filepath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := atomic.WriteFile(s.filepath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}
