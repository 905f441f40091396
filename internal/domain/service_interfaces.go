package domain

//go:generate mockgen -destination mocks/mock_webhook_service.go -package mocks github.com/hookforge/hookforge/internal/domain WebhookService
//go:generate mockgen -destination mocks/mock_event_emitter.go -package mocks github.com/hookforge/hookforge/internal/domain EventEmitter
//go:generate mockgen -destination mocks/mock_queue_service.go -package mocks github.com/hookforge/hookforge/internal/domain QueueService
//go:generate mockgen -destination mocks/mock_workflow_notifier.go -package mocks github.com/hookforge/hookforge/internal/domain WorkflowNotifier

import (
	"context"
	"time"
)

// WebhookService provides operations for managing webhooks. Every operation
// is owner-scoped: callers only see and mutate their own webhooks.
type WebhookService interface {
	// CreateWebhook registers a webhook with a generated signing secret
	CreateWebhook(ctx context.Context, userID string, req *CreateWebhookRequest) (*Webhook, error)

	// GetWebhook retrieves one webhook owned by the caller
	GetWebhook(ctx context.Context, userID, id string) (*Webhook, error)

	// ListWebhooks retrieves the caller's webhooks
	ListWebhooks(ctx context.Context, userID string, activeOnly *bool) ([]*Webhook, error)

	// UpdateWebhook merges the partial update into the stored webhook
	UpdateWebhook(ctx context.Context, userID, id string, req *UpdateWebhookRequest) (*Webhook, error)

	// DeleteWebhook removes the webhook and its queue jobs; logs are retained
	DeleteWebhook(ctx context.Context, userID, id string) error

	// TestWebhook enqueues a sample delivery and returns the job id
	TestWebhook(ctx context.Context, userID, id string, kind EventKind) (string, error)

	// RotateSecret generates a fresh signing secret; later deliveries use it
	RotateSecret(ctx context.Context, userID, id string) (*Webhook, error)

	// ListLogs returns a page of the webhook's delivery logs plus the total
	ListLogs(ctx context.Context, userID, webhookID string, limit, offset int, successFilter *bool) ([]*DeliveryLog, int, error)

	// RetryDelivery replays a logged payload as a fresh delivery job
	RetryDelivery(ctx context.Context, userID, logID string) (string, error)
}

// EventEmitter routes platform events to subscribed webhooks
type EventEmitter interface {
	// Emit validates the payload and enqueues one job per matching webhook
	Emit(ctx context.Context, ownerID string, kind EventKind, payload map[string]interface{}) error

	// EmitToOne bypasses subscription lookup and targets a single webhook,
	// returning the enqueued job id
	EmitToOne(ctx context.Context, webhookID string, kind EventKind, payload map[string]interface{}) (string, error)
}

// QueueService is the queue manager surface exposed to the admin handlers
type QueueService interface {
	// Enqueue inserts a pending job for the webhook and wakes its owner's shard
	Enqueue(ctx context.Context, webhook *Webhook, kind EventKind, payload []byte) (string, error)

	// RetryAllFailed flips the owner's failed jobs back to pending
	RetryAllFailed(ctx context.Context, ownerID string) (int64, error)

	// Stats returns the owner's job counts by status
	Stats(ctx context.Context, ownerID string) (*QueueStats, error)

	// GlobalStats returns process-wide job counts by status
	GlobalStats(ctx context.Context) (*QueueStats, error)

	// ListJobs returns a page of the owner's jobs plus the total
	ListJobs(ctx context.Context, ownerID string, limit, offset int) ([]*QueueJob, int, error)
}

// WorkflowNotifier posts live delivery progress to the owner's sessions.
// Notifications are advisory; failures never affect delivery bookkeeping.
type WorkflowNotifier interface {
	// Triggered announces a freshly enqueued job
	Triggered(ctx context.Context, ownerID, jobID, webhookID string, kind EventKind)

	// ExecutionUpdate announces a retry in flight
	ExecutionUpdate(ctx context.Context, ownerID, jobID string, attempt int, status QueueJobStatus, nextRetryAt *time.Time)

	// ExecutionComplete announces a terminal outcome
	ExecutionComplete(ctx context.Context, ownerID, jobID string, success bool, statusCode *int, elapsedMs int64, errText string)
}
