package domain

//go:generate mockgen -destination mocks/mock_delivery_log_repository.go -package mocks github.com/hookforge/hookforge/internal/domain DeliveryLogRepository

import (
	"context"
	"encoding/json"
	"time"
)

// DeliveryLogStatus represents the outcome recorded for one delivery attempt
type DeliveryLogStatus string

const (
	// DeliveryLogStatusSuccess records a 2xx delivery
	DeliveryLogStatusSuccess DeliveryLogStatus = "success"
	// DeliveryLogStatusRetrying records a failed attempt with a retry scheduled
	DeliveryLogStatusRetrying DeliveryLogStatus = "retrying"
	// DeliveryLogStatusFailed records a terminal failure
	DeliveryLogStatusFailed DeliveryLogStatus = "failed"
)

// DeliveryLog is one append-only row per delivery attempt. Rows are never
// updated; the payload copy makes admin replay possible after the queue job
// is swept.
type DeliveryLog struct {
	ID            string            `json:"id"`
	WebhookID     string            `json:"webhook_id"`
	EventKind     EventKind         `json:"event_kind"`
	URL           string            `json:"url"`
	AttemptNumber int               `json:"attempt_number"`
	Status        DeliveryLogStatus `json:"status"`
	StatusCode    *int              `json:"status_code,omitempty"`
	ResponseBody  string            `json:"response_body,omitempty"` // capped at capture time
	ElapsedMs     int64             `json:"elapsed_ms"`
	Error         *string           `json:"error,omitempty"`
	Payload       json.RawMessage   `json:"payload,omitempty"`
	NextRetryAt   *time.Time        `json:"next_retry_at,omitempty"` // retrying only
	DeliveredAt   *time.Time        `json:"delivered_at,omitempty"`  // success only
	CreatedAt     time.Time         `json:"created_at"`
}

// DeliveryLogRepository defines the interface for delivery log data access
type DeliveryLogRepository interface {
	Create(ctx context.Context, log *DeliveryLog) error
	GetByID(ctx context.Context, id string) (*DeliveryLog, error)

	// ListByWebhook returns a page of logs, newest first, plus the total row
	// count. successFilter narrows to success rows (true) or to retrying and
	// failed rows (false).
	ListByWebhook(ctx context.Context, webhookID string, limit, offset int, successFilter *bool) ([]*DeliveryLog, int, error)

	// RecentFailures returns the latest non-success rows for the webhook
	RecentFailures(ctx context.Context, webhookID string, limit int) ([]*DeliveryLog, error)

	// DeleteOlderThan removes rows past the retention window
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
