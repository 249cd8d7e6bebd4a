// Package events provides a typed callback fan-out used by the reminder
// scheduler and the exercise timer to publish state changes.
package events

import (
	"sort"
	"sync"
)

// Event delivers values of type T to registered listeners. Listeners run
// on the notifying goroutine, outside the internal lock, in registration
// order.
type Event[T any] struct {
	mu        sync.RWMutex
	listeners map[uint64]func(T)
	nextID    uint64
	replay    bool
	last      *T
}

// New creates an Event. With replay set, a new listener immediately
// receives the most recent value if one has been published.
func New[T any](replay bool) *Event[T] {
	return &Event[T]{
		listeners: make(map[uint64]func(T)),
		replay:    replay,
	}
}

// Listen registers fn and returns a function that removes it.
func (e *Event[T]) Listen(fn func(T)) func() {
	if fn == nil {
		panic("events: nil listener")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	var last *T
	if e.replay && e.last != nil {
		v := *e.last
		last = &v
	}
	e.mu.Unlock()

	if last != nil {
		fn(*last)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// Notify calls every listener with value.
func (e *Event[T]) Notify(value T) {
	e.mu.Lock()
	if e.replay {
		v := value
		e.last = &v
	}
	ids := make([]uint64, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(T), len(ids))
	for i, id := range ids {
		fns[i] = e.listeners[id]
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *Event[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
