package domain

//go:generate mockgen -destination mocks/mock_queue_job_repository.go -package mocks github.com/hookforge/hookforge/internal/domain QueueJobRepository

import (
	"context"
	"encoding/json"
	"time"
)

// QueueJobStatus represents the lifecycle state of a delivery job
type QueueJobStatus string

const (
	// QueueJobStatusPending is for jobs waiting for their scheduled time
	QueueJobStatusPending QueueJobStatus = "pending"
	// QueueJobStatusProcessing is for jobs with an in-flight delivery attempt
	QueueJobStatusProcessing QueueJobStatus = "processing"
	// QueueJobStatusSuccess is the terminal state of a delivered job
	QueueJobStatusSuccess QueueJobStatus = "success"
	// QueueJobStatusFailed is the terminal state of an exhausted or non-retryable job
	QueueJobStatusFailed QueueJobStatus = "failed"
)

// QueueJob is one durable delivery job in an owner's shard.
// Payload holds the frozen JSON bytes: exactly what was validated, what gets
// signed, and what goes on the wire. It is stored as text, never re-encoded.
//
// AttemptNumber counts claimed delivery attempts: 0 means the job has never
// been picked up, and the claim bumps it, so a job in processing already
// shows the attempt underway. Delivery logs number attempts from 1.
type QueueJob struct {
	ID            string          `json:"id"`
	WebhookID     string          `json:"webhook_id"`
	UserID        string          `json:"user_id"` // owner, shard key
	EventKind     EventKind       `json:"event_kind"`
	Payload       json.RawMessage `json:"payload"`
	AttemptNumber int             `json:"attempt_number"`
	Status        QueueJobStatus  `json:"status"`
	ScheduledAt   time.Time       `json:"scheduled_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
	LastError     *string         `json:"last_error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsDue reports whether the job is runnable at the given time
func (j *QueueJob) IsDue(now time.Time) bool {
	return j.Status == QueueJobStatusPending && !j.ScheduledAt.After(now)
}

// IsTerminal reports whether the job reached a final state
func (j *QueueJob) IsTerminal() bool {
	return j.Status == QueueJobStatusSuccess || j.Status == QueueJobStatusFailed
}

// RetryDelayFor returns the backoff delay after the given completed attempt.
// Attempt numbers are 1-based; attempts past the end of the schedule clamp to
// its last entry, so a schedule of [1s, 5s, 30s] yields 1s, 5s, 30s, 30s, ...
func RetryDelayFor(completedAttempt int, scheduleMs []int64) time.Duration {
	if len(scheduleMs) == 0 {
		return 0
	}
	idx := completedAttempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scheduleMs) {
		idx = len(scheduleMs) - 1
	}
	return time.Duration(scheduleMs[idx]) * time.Millisecond
}

// RetryDelayExponential returns base * 2^(n-1) for the nth attempt.
// n is clamped to keep the shift in range.
func RetryDelayExponential(base time.Duration, n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if n > 30 {
		n = 30
	}
	return base * time.Duration(int64(1)<<(n-1))
}

// QueueStats aggregates job counts by status
type QueueStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Succeeded  int64 `json:"succeeded"`
	Failed     int64 `json:"failed"`
}

// Total returns the job count across all statuses
func (s QueueStats) Total() int64 {
	return s.Pending + s.Processing + s.Succeeded + s.Failed
}

// QueueJobRepository defines the interface for queue job data access
type QueueJobRepository interface {
	Create(ctx context.Context, job *QueueJob) error
	GetByID(ctx context.Context, id string) (*QueueJob, error)
	ListByOwner(ctx context.Context, userID string, limit, offset int) ([]*QueueJob, int, error)

	// FetchDue returns up to limit due jobs for the owner, oldest first,
	// locked against concurrent fetchers
	FetchDue(ctx context.Context, userID string, limit int, now time.Time) ([]*QueueJob, error)

	// MarkProcessing claims a pending job; the bool is false when the job was
	// already taken or no longer pending
	MarkProcessing(ctx context.Context, id string, at time.Time) (bool, error)

	MarkSuccess(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errText string) error

	// Reschedule returns a job to pending for its next attempt
	Reschedule(ctx context.Context, id string, attemptNumber int, scheduledAt time.Time) error

	// ResetProcessing returns every processing job to pending with its attempt
	// number preserved, for crash recovery
	ResetProcessing(ctx context.Context) (int64, error)

	// RetryAllFailed flips the owner's failed jobs back to pending, attempt 1
	RetryAllFailed(ctx context.Context, userID string) (int64, error)

	CountByStatus(ctx context.Context, userID string) (*QueueStats, error)
	GlobalStats(ctx context.Context) (*QueueStats, error)

	// NextDueAt returns the earliest pending scheduled_at for the owner, nil
	// when the owner has no pending jobs
	NextDueAt(ctx context.Context, userID string) (*time.Time, error)

	// OwnersWithPending lists distinct owners holding pending jobs
	OwnersWithPending(ctx context.Context, limit int) ([]string, error)

	DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteByWebhook(ctx context.Context, webhookID string) (int64, error)
}
