// Package event implements the in-process broker used by the rollover
// submission workflow: a typed publish/subscribe bus for the rollover domain
// events and a correlation-keyed registry that delivers each logging
// completion to the one submission that is waiting for it.
package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RolloverRequested is published once per accepted rollover submission, before
// the submitter starts waiting for its logging completion.
type RolloverRequested struct {
	CorrelationID       uuid.UUID `json:"correlation_id"`
	MemberAccountNumber string    `json:"member_account_number"`
	Account             int64     `json:"account"`
	LoanSuffix          int       `json:"loan_suffix"`
	RequestedAt         time.Time `json:"requested_at"`
}

// RolloverLoggingCompleted is published by the logging subscriber when it has
// finished with a RolloverRequested event. Exactly one completion is expected
// per request; the correlation id pairs the two.
type RolloverLoggingCompleted struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
	Success       bool      `json:"success"`
	FailureDetail string    `json:"failure_detail,omitempty"`
}

// Bus is an in-process publish/subscribe broker for the rollover events.
// Handlers run on their own goroutines, so publishing never blocks the
// submitting request. Delivery order is only guaranteed relative to a single
// publish call.
type Bus struct {
	mu        sync.RWMutex
	requested []func(RolloverRequested)
	completed []func(RolloverLoggingCompleted)
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeRolloverRequested registers a handler for rollover request events.
func (b *Bus) SubscribeRolloverRequested(handler func(RolloverRequested)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requested = append(b.requested, handler)
}

// SubscribeLoggingCompleted registers a handler for logging completion events.
func (b *Bus) SubscribeLoggingCompleted(handler func(RolloverLoggingCompleted)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed = append(b.completed, handler)
}

// PublishRolloverRequested delivers the event asynchronously to every
// subscribed handler.
func (b *Bus) PublishRolloverRequested(ev RolloverRequested) {
	b.mu.RLock()
	handlers := make([]func(RolloverRequested), len(b.requested))
	copy(handlers, b.requested)
	b.mu.RUnlock()

	for _, handler := range handlers {
		go handler(ev)
	}
}

// PublishLoggingCompleted delivers the event asynchronously to every
// subscribed handler.
func (b *Bus) PublishLoggingCompleted(ev RolloverLoggingCompleted) {
	b.mu.RLock()
	handlers := make([]func(RolloverLoggingCompleted), len(b.completed))
	copy(handlers, b.completed)
	b.mu.RUnlock()

	for _, handler := range handlers {
		go handler(ev)
	}
}
