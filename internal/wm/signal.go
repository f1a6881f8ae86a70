package wm

import (
	"sync"
	"sync/atomic"
)

// Signal is an ordered list of observers.
type Signal[T any] struct {
	mu       sync.Mutex
	handlers []handler[T]
	nextID   uint64
}

type handler[T any] struct {
	id uint64
	fn func(T)
}

// Connect registers fn and returns an id for Disconnect.
func (s *Signal[T]) Connect(fn func(T)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.handlers = append(s.handlers, handler[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Disconnect removes the handler with the given id.
func (s *Signal[T]) Disconnect(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, h := range s.handlers {
		if h.id == id {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

// Emit calls every handler synchronously in registration order.
// Handlers may Connect or Disconnect while being called.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	handlers := s.handlers
	s.mu.Unlock()

	for _, h := range handlers {
		h.fn(v)
	}
}

// Snapshot holds an immutable value that is replaced whole.
// Readers never observe a partially written value, and values handed out
// earlier are never modified.
type Snapshot[T any] struct {
	p atomic.Pointer[[]T]
}

// Load returns the current value, nil before the first Store.
func (s *Snapshot[T]) Load() []T {
	if v := s.p.Load(); v != nil {
		return *v
	}
	return nil
}

// Store replaces the value. v must not be modified afterwards.
func (s *Snapshot[T]) Store(v []T) {
	s.p.Store(&v)
}

// Loaded reports whether Store has been called.
func (s *Snapshot[T]) Loaded() bool {
	return s.p.Load() != nil
}
