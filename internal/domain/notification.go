package domain

import (
	"context"
	"fmt"
	"sync"
	"time"
)

//go:generate mockgen -destination mocks/mock_session_bus.go -package mocks github.com/hookforge/hookforge/internal/domain SessionBus

// WorkflowMessageType defines the type of a live workflow progress message
type WorkflowMessageType string

const (
	WorkflowTriggered         WorkflowMessageType = "workflow_triggered"
	WorkflowExecutionUpdate   WorkflowMessageType = "workflow_execution_update"
	WorkflowExecutionComplete WorkflowMessageType = "workflow_execution_complete"
)

// WorkflowMessage is the progress message posted to an owner's live session.
// Field presence depends on the message type: triggered carries the webhook
// and event kind, update carries attempt/status/next_retry_at, complete
// carries the outcome. These shapes are advisory; durable state lives in the
// store only.
type WorkflowMessage struct {
	Type        WorkflowMessageType `json:"type"`
	JobID       string              `json:"job_id"`
	WebhookID   string              `json:"webhook_id,omitempty"`
	EventKind   EventKind           `json:"event_kind,omitempty"`
	Attempt     int                 `json:"attempt,omitempty"`
	Status      string              `json:"status,omitempty"`
	Success     *bool               `json:"success,omitempty"`
	StatusCode  *int                `json:"status_code,omitempty"`
	ElapsedMs   int64               `json:"elapsed_ms,omitempty"`
	Error       string              `json:"error,omitempty"`
	NextRetryAt *time.Time          `json:"next_retry_at,omitempty"`
	Timestamp   int64               `json:"timestamp"`
}

// SessionHandler consumes workflow messages for one owner's live session
type SessionHandler func(ctx context.Context, msg WorkflowMessage)

// SessionBus carries workflow progress messages to an owner's live sessions.
// Publishing to an owner nobody listens to is a no-op.
type SessionBus interface {
	// Publish sends a message to every session subscribed to the owner
	Publish(ctx context.Context, ownerID string, msg WorkflowMessage)

	// Subscribe registers a handler for an owner's messages and returns the
	// matching unsubscribe function
	Subscribe(ownerID string, handler SessionHandler) func()
}

// sessionHandlerTimeout bounds how long one session handler may run
const sessionHandlerTimeout = 5 * time.Second

// InMemorySessionBus is the in-process SessionBus implementation. The SSE or
// websocket edge subscribes per connected owner.
type InMemorySessionBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[string]map[int]SessionHandler
}

// NewInMemorySessionBus creates a new in-memory session bus
func NewInMemorySessionBus() *InMemorySessionBus {
	return &InMemorySessionBus{
		subscribers: make(map[string]map[int]SessionHandler),
	}
}

// Subscribe registers a handler for an owner's messages
func (b *InMemorySessionBus) Subscribe(ownerID string, handler SessionHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[ownerID] == nil {
		b.subscribers[ownerID] = make(map[int]SessionHandler)
	}
	b.nextID++
	id := b.nextID
	b.subscribers[ownerID][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers[ownerID], id)
		if len(b.subscribers[ownerID]) == 0 {
			delete(b.subscribers, ownerID)
		}
	}
}

// Publish sends a message to every session subscribed to the owner. Each
// handler runs on its own goroutine under a hard timeout; a slow or panicking
// handler never blocks delivery bookkeeping.
func (b *InMemorySessionBus) Publish(ctx context.Context, ownerID string, msg WorkflowMessage) {
	b.mu.RLock()
	handlers := make([]SessionHandler, 0, len(b.subscribers[ownerID]))
	for _, h := range b.subscribers[ownerID] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h SessionHandler) {
			handlerCtx, cancel := context.WithTimeout(ctx, sessionHandlerTimeout)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)

				// Catch and handle panics in session handlers
				defer func() {
					if r := recover(); r != nil {
						fmt.Printf("ERROR: panic in session handler: %v\n", r)
					}
				}()

				h(handlerCtx, msg)
			}()

			select {
			case <-done:
				// Handler completed normally
			case <-handlerCtx.Done():
				// Handler timed out; it keeps running but we stop waiting
			}
		}(handler)
	}
}

// SubscriberCount returns the number of live sessions for an owner
func (b *InMemorySessionBus) SubscriberCount(ownerID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[ownerID])
}
