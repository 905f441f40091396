package service

import (
	"context"
	"time"

	"github.com/hookforge/hookforge/internal/domain"
)

// WorkflowNotifier publishes live workflow progress to an owner's connected
// sessions. Every message is advisory: it reaches whoever is listening right
// now and is never stored or retried. Durable state lives in the repositories.
type WorkflowNotifier struct {
	bus domain.SessionBus
}

// NewWorkflowNotifier creates a new workflow notifier
func NewWorkflowNotifier(bus domain.SessionBus) *WorkflowNotifier {
	return &WorkflowNotifier{
		bus: bus,
	}
}

// Triggered announces that an event matched a webhook and a job was enqueued
func (n *WorkflowNotifier) Triggered(ctx context.Context, ownerID, jobID, webhookID string, kind domain.EventKind) {
	n.bus.Publish(ctx, ownerID, domain.WorkflowMessage{
		Type:      domain.WorkflowTriggered,
		JobID:     jobID,
		WebhookID: webhookID,
		EventKind: kind,
		Timestamp: time.Now().UnixMilli(),
	})
}

// ExecutionUpdate announces a state change of a running job, including the
// scheduled time of the next retry when one is planned
func (n *WorkflowNotifier) ExecutionUpdate(ctx context.Context, ownerID, jobID string, attempt int, status domain.QueueJobStatus, nextRetryAt *time.Time) {
	n.bus.Publish(ctx, ownerID, domain.WorkflowMessage{
		Type:        domain.WorkflowExecutionUpdate,
		JobID:       jobID,
		Attempt:     attempt,
		Status:      string(status),
		NextRetryAt: nextRetryAt,
		Timestamp:   time.Now().UnixMilli(),
	})
}

// ExecutionComplete announces the terminal outcome of a job
func (n *WorkflowNotifier) ExecutionComplete(ctx context.Context, ownerID, jobID string, success bool, statusCode *int, elapsedMs int64, errText string) {
	n.bus.Publish(ctx, ownerID, domain.WorkflowMessage{
		Type:       domain.WorkflowExecutionComplete,
		JobID:      jobID,
		Success:    &success,
		StatusCode: statusCode,
		ElapsedMs:  elapsedMs,
		Error:      errText,
		Timestamp:  time.Now().UnixMilli(),
	})
}
