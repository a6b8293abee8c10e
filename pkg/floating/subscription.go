package floating

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription owns the listeners, observers and frame requests of one
// AutoUpdate activation. Dispose drains them exactly once.
type Subscription struct {
	id string

	mu        sync.Mutex
	disposers []func()
	consumed  bool
}

func newSubscription() *Subscription {
	return &Subscription{id: uuid.NewString()}
}

// ID identifies the activation in logs.
func (s *Subscription) ID() string { return s.id }

// add registers a disposer. Once the subscription is disposed, d runs
// immediately instead.
func (s *Subscription) add(d func()) {
	if d == nil {
		return
	}
	s.mu.Lock()
	if s.consumed {
		s.mu.Unlock()
		d()
		return
	}
	s.disposers = append(s.disposers, d)
	s.mu.Unlock()
}

// Dispose runs every disposer in registration order. It reports whether
// this call did the work; later calls are no-ops.
func (s *Subscription) Dispose() bool {
	s.mu.Lock()
	if s.consumed {
		s.mu.Unlock()
		return false
	}
	s.consumed = true
	disposers := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	for _, d := range disposers {
		d()
	}
	return true
}

// Disposed reports whether Dispose has run.
func (s *Subscription) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// Len returns the number of live disposers.
func (s *Subscription) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.disposers)
}
