package event

import (
	"sync"

	"github.com/google/uuid"
)

// CompletionRegistry routes each RolloverLoggingCompleted event to the single
// submission waiting on its correlation id. Every waiter owns its own
// single-use buffered channel, registered before the request event is
// published and removed again on delivery, timeout or cancellation, so
// concurrent submissions can never observe each other's completions.
type CompletionRegistry struct {
	mu      sync.Mutex
	waiters map[uuid.UUID]chan RolloverLoggingCompleted
}

func NewCompletionRegistry() *CompletionRegistry {
	return &CompletionRegistry{
		waiters: make(map[uuid.UUID]chan RolloverLoggingCompleted),
	}
}

// Attach subscribes the registry to completion events on the bus.
func (r *CompletionRegistry) Attach(bus *Bus) {
	bus.SubscribeLoggingCompleted(func(ev RolloverLoggingCompleted) {
		r.Fulfill(ev)
	})
}

// Register creates a waiter for the given correlation id and returns the
// channel its completion will arrive on. The channel is buffered so the
// publisher never blocks on a slow waiter.
func (r *CompletionRegistry) Register(correlationID uuid.UUID) <-chan RolloverLoggingCompleted {
	ch := make(chan RolloverLoggingCompleted, 1)

	r.mu.Lock()
	r.waiters[correlationID] = ch
	r.mu.Unlock()

	return ch
}

// Fulfill delivers a completion to its registered waiter and removes the
// registration. Completions without a waiter (already timed out or cancelled)
// are dropped; it reports whether a waiter was found.
func (r *CompletionRegistry) Fulfill(ev RolloverLoggingCompleted) bool {
	r.mu.Lock()
	ch, ok := r.waiters[ev.CorrelationID]
	if ok {
		delete(r.waiters, ev.CorrelationID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	ch <- ev
	return true
}

// Cancel removes an abandoned registration. Safe to call after Fulfill.
func (r *CompletionRegistry) Cancel(correlationID uuid.UUID) {
	r.mu.Lock()
	delete(r.waiters, correlationID)
	r.mu.Unlock()
}

// Pending returns the number of registered waiters.
func (r *CompletionRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters)
}
