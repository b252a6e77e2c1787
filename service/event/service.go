// Package event delivers document lifecycle notifications to registered
// listeners while an audit runs.  Delivery is synchronous and in
// registration order; listeners that need isolation should hand the event
// off to their own goroutine.
package event

import (
	"context"
	"sync"
)

// Listener receives published events.
type Listener func(ctx context.Context, event *Event)

// Service fans published events out to listeners.
type Service struct {
	mu        sync.RWMutex
	listeners []Listener
}

// New creates an event service.
func New(opts ...Option) *Service {
	ret := &Service{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Subscribe registers a listener for all subsequent events.
func (s *Service) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

// Publish delivers the event to every registered listener.
func (s *Service) Publish(ctx context.Context, event *Event) {
	if event == nil {
		return
	}
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, listener := range listeners {
		listener(ctx, event)
	}
}
