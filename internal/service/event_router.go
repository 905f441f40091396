package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/logger"
)

// enqueueConcurrency caps parallel job inserts during one event's fan-out
const enqueueConcurrency = 4

// EventRouter fans platform events out to the owner's subscribed webhooks.
// Emit freezes the payload to bytes exactly once; those bytes flow through
// filter matching, the queue and delivery untouched, so the signature the
// receiver verifies covers the same bytes the emitter produced.
type EventRouter struct {
	webhookRepo domain.WebhookRepository
	queue       domain.QueueService
	notifier    domain.WorkflowNotifier
	logger      logger.Logger
	payloadCap  int64
}

// NewEventRouter creates a new event router
func NewEventRouter(
	webhookRepo domain.WebhookRepository,
	queue domain.QueueService,
	notifier domain.WorkflowNotifier,
	logger logger.Logger,
	payloadCap int64,
) *EventRouter {
	return &EventRouter{
		webhookRepo: webhookRepo,
		queue:       queue,
		notifier:    notifier,
		logger:      logger,
		payloadCap:  payloadCap,
	}
}

// freezePayload encodes the payload once and validates the frozen bytes
// against the kind's contract. All downstream stages reuse these bytes.
// Missing timestamp and userId fields are filled in before the freeze.
func (r *EventRouter) freezePayload(ownerID string, kind domain.EventKind, payload map[string]interface{}) ([]byte, error) {
	if !domain.IsValidEventKind(kind) {
		return nil, domain.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown event kind: %s", kind)}
	}

	if payload == nil {
		payload = map[string]interface{}{}
	}
	if _, ok := payload["timestamp"]; !ok {
		payload["timestamp"] = time.Now().UnixMilli()
	}
	if _, ok := payload["userId"]; !ok && ownerID != "" {
		payload["userId"] = ownerID
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event payload: %w", err)
	}

	if r.payloadCap > 0 && int64(len(payloadBytes)) > r.payloadCap {
		return nil, domain.ValidationError{
			Field:   "payload",
			Message: fmt.Sprintf("payload size %d exceeds the %d byte limit", len(payloadBytes), r.payloadCap),
		}
	}

	if errs := domain.ValidateEventPayload(kind, payloadBytes); len(errs) > 0 {
		return nil, domain.ValidationError{Field: "payload", Message: strings.Join(errs, "; ")}
	}

	return payloadBytes, nil
}

// Emit routes one event to every active webhook of the owner that subscribes
// to the kind and whose filters accept the payload. Each matched webhook gets
// its own enqueue: a failed insert is logged and skipped, never blocking the
// fan-out to the rest. Emit fails only when no matched webhook could be
// enqueued; no subscriber at all is a successful no-op.
func (r *EventRouter) Emit(ctx context.Context, ownerID string, kind domain.EventKind, payload map[string]interface{}) error {
	payloadBytes, err := r.freezePayload(ownerID, kind, payload)
	if err != nil {
		return err
	}

	webhooks, err := r.webhookRepo.GetByOwnerAndEvent(ctx, ownerID, kind)
	if err != nil {
		return fmt.Errorf("failed to list subscribed webhooks: %w", err)
	}

	matched := make([]*domain.Webhook, 0, len(webhooks))
	for _, webhook := range webhooks {
		if webhook.MatchesFilters(payloadBytes) {
			matched = append(matched, webhook)
		}
	}

	if len(matched) == 0 {
		r.logger.WithFields(map[string]interface{}{
			"owner_id":   ownerID,
			"event_kind": string(kind),
		}).Debug("Event matched no webhooks")
		return nil
	}

	var g errgroup.Group
	g.SetLimit(enqueueConcurrency)

	var mu sync.Mutex
	failed := 0
	for _, webhook := range matched {
		g.Go(func() error {
			jobID, enqueueErr := r.queue.Enqueue(ctx, webhook, kind, payloadBytes)
			if enqueueErr != nil {
				r.logger.WithFields(map[string]interface{}{
					"owner_id":   ownerID,
					"webhook_id": webhook.ID,
					"event_kind": string(kind),
					"error":      enqueueErr.Error(),
				}).Error("Failed to enqueue webhook job")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			r.notifier.Triggered(ctx, ownerID, jobID, webhook.ID, kind)
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(matched) {
		return fmt.Errorf("failed to enqueue webhook jobs for all %d matched webhooks", failed)
	}

	r.logger.WithFields(map[string]interface{}{
		"owner_id":   ownerID,
		"event_kind": string(kind),
		"webhooks":   len(matched) - failed,
	}).Debug("Event routed to webhooks")

	return nil
}

// EmitToOne enqueues one job directly for a single webhook, bypassing
// subscription and filter matching. Test sends and manual replays use it.
// Returns the id of the enqueued job.
func (r *EventRouter) EmitToOne(ctx context.Context, webhookID string, kind domain.EventKind, payload map[string]interface{}) (string, error) {
	webhook, err := r.webhookRepo.GetByID(ctx, webhookID)
	if err != nil {
		return "", err
	}

	payloadBytes, err := r.freezePayload(webhook.UserID, kind, payload)
	if err != nil {
		return "", err
	}

	jobID, err := r.queue.Enqueue(ctx, webhook, kind, payloadBytes)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue webhook job: %w", err)
	}

	r.notifier.Triggered(ctx, webhook.UserID, jobID, webhook.ID, kind)

	return jobID, nil
}

var (
	defaultEmitterMu sync.RWMutex
	defaultEmitter   domain.EventEmitter
)

// SetDefaultEmitter installs the process-wide emitter used by Emit
func SetDefaultEmitter(emitter domain.EventEmitter) {
	defaultEmitterMu.Lock()
	defer defaultEmitterMu.Unlock()
	defaultEmitter = emitter
}

// DefaultEmitter returns the installed process-wide emitter, or nil
func DefaultEmitter() domain.EventEmitter {
	defaultEmitterMu.RLock()
	defer defaultEmitterMu.RUnlock()
	return defaultEmitter
}

// ResetDefaultEmitter clears the installed emitter. Shutdown calls this so a
// late emit fails fast instead of racing a stopped queue.
func ResetDefaultEmitter() {
	defaultEmitterMu.Lock()
	defer defaultEmitterMu.Unlock()
	defaultEmitter = nil
}

// Emit routes an event through the process-default emitter. Platform code
// calls this at the points where events happen, without carrying the router.
func Emit(ctx context.Context, ownerID string, kind domain.EventKind, payload map[string]interface{}) error {
	emitter := DefaultEmitter()
	if emitter == nil {
		return fmt.Errorf("event emitter is not configured")
	}
	return emitter.Emit(ctx, ownerID, kind, payload)
}
