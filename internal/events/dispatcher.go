package events

import (
	"context"
	"sync"
)

// Handler consumes a published event.
type Handler func(context.Context, Event) error

// Dispatcher publishes lifecycle events. Publishing happens after the
// primary transaction committed; failures must never surface to the
// transition caller.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
}

// InMemoryDispatcher invokes handlers synchronously. Used when no queue
// backend is configured and in tests.
type InMemoryDispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewInMemoryDispatcher creates a dispatcher with the given handlers.
func NewInMemoryDispatcher(handlers ...Handler) *InMemoryDispatcher {
	return &InMemoryDispatcher{handlers: handlers}
}

// Subscribe registers an additional handler.
func (d *InMemoryDispatcher) Subscribe(handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler)
}

// Publish invokes every handler, ignoring individual handler errors.
func (d *InMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]Handler{}, d.handlers...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}
