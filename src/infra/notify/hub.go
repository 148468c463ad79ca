// Package notify fans successful move events out to in-process observers.
package notify

import (
	"sync"

	"tidyfold/src/sorting"
)

// Hub delivers each published MoveEvent to every subscribed observer,
// synchronously and in registration order.
type Hub struct {
	mu        sync.RWMutex
	observers []func(sorting.MoveEvent)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers an observer for future move events.
func (h *Hub) Subscribe(fn func(sorting.MoveEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, fn)
}

// Publish delivers the event to all observers. Observers run on the
// publisher's goroutine, so one move is fully reported before the next.
func (h *Hub) Publish(event sorting.MoveEvent) {
	h.mu.RLock()
	observers := h.observers
	h.mu.RUnlock()

	for _, fn := range observers {
		fn(event)
	}
}
