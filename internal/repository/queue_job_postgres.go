package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hookforge/hookforge/internal/domain"
)

// queueJobRepository implements domain.QueueJobRepository for PostgreSQL
type queueJobRepository struct {
	db *sql.DB
}

// NewQueueJobRepository creates a new PostgreSQL queue job repository
func NewQueueJobRepository(db *sql.DB) domain.QueueJobRepository {
	return &queueJobRepository{db: db}
}

const queueJobColumns = `
	id, webhook_id, user_id, event_kind, payload, attempt_number,
	status, scheduled_at, last_attempt_at, last_error, created_at`

// Create enqueues a single delivery job
func (r *queueJobRepository) Create(ctx context.Context, job *domain.QueueJob) error {
	applyQueueJobDefaults(job, time.Now().UTC())

	query := `
		INSERT INTO queue_jobs (
			id, webhook_id, user_id, event_kind, payload, attempt_number,
			status, scheduled_at, last_attempt_at, last_error, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID,
		job.WebhookID,
		job.UserID,
		job.EventKind,
		[]byte(job.Payload),
		job.AttemptNumber,
		job.Status,
		job.ScheduledAt,
		job.LastAttemptAt,
		job.LastError,
		job.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create queue job: %w", err)
	}

	return nil
}

// applyQueueJobDefaults fills the fields a caller may leave unset
func applyQueueJobDefaults(job *domain.QueueJob, now time.Time) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = domain.QueueJobStatusPending
	}
	if job.ScheduledAt.IsZero() {
		job.ScheduledAt = now
	}
	job.CreatedAt = now
}

// GetByID retrieves a queue job by ID
func (r *queueJobRepository) GetByID(ctx context.Context, id string) (*domain.QueueJob, error) {
	query := `SELECT` + queueJobColumns + `
		FROM queue_jobs
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	job, err := scanQueueJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "queue job", ID: id}
		}
		return nil, fmt.Errorf("failed to get queue job: %w", err)
	}

	return job, nil
}

// ListByOwner retrieves the owner's jobs with pagination, newest first.
// Returns the page and the total job count.
func (r *queueJobRepository) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]*domain.QueueJob, int, error) {
	countQuery := `SELECT COUNT(*) FROM queue_jobs WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count queue jobs: %w", err)
	}

	query := `SELECT` + queueJobColumns + `
		FROM queue_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query queue jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.QueueJob
	for rows.Next() {
		job, err := scanQueueJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan queue job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating queue jobs: %w", err)
	}

	return jobs, total, nil
}

// FetchDue retrieves up to limit due jobs for the owner, oldest first.
// Uses FOR UPDATE SKIP LOCKED for safe concurrent shard access.
func (r *queueJobRepository) FetchDue(ctx context.Context, userID string, limit int, now time.Time) ([]*domain.QueueJob, error) {
	query := `SELECT` + queueJobColumns + `
		FROM queue_jobs
		WHERE user_id = $1 AND status = 'pending' AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.QueueJob
	for rows.Next() {
		job, err := scanQueueJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue jobs: %w", err)
	}

	return jobs, nil
}

// MarkProcessing atomically claims a pending job and counts the new attempt.
// Returns false when another worker already took the job or it left the
// pending state.
func (r *queueJobRepository) MarkProcessing(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE queue_jobs
		SET status = 'processing', attempt_number = attempt_number + 1, last_attempt_at = $2
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark job as processing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// MarkSuccess settles a job as delivered
func (r *queueJobRepository) MarkSuccess(ctx context.Context, id string) error {
	query := `UPDATE queue_jobs SET status = 'success', last_error = NULL WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark job as success: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "queue job", ID: id}
	}

	return nil
}

// MarkFailed settles a job as exhausted or non-retryable
func (r *queueJobRepository) MarkFailed(ctx context.Context, id string, errText string) error {
	query := `UPDATE queue_jobs SET status = 'failed', last_error = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, errText)
	if err != nil {
		return fmt.Errorf("failed to mark job as failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "queue job", ID: id}
	}

	return nil
}

// Reschedule returns a job to pending for its next attempt. The stored
// attempt number is the completed attempt count; the next claim bumps it.
func (r *queueJobRepository) Reschedule(ctx context.Context, id string, attemptNumber int, scheduledAt time.Time) error {
	query := `
		UPDATE queue_jobs
		SET status = 'pending', attempt_number = $2, scheduled_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, attemptNumber, scheduledAt)
	if err != nil {
		return fmt.Errorf("failed to reschedule job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "queue job", ID: id}
	}

	return nil
}

// ResetProcessing returns every processing job to pending, for recovery
// after a crash left attempts in flight
func (r *queueJobRepository) ResetProcessing(ctx context.Context) (int64, error) {
	query := `UPDATE queue_jobs SET status = 'pending' WHERE status = 'processing'`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to reset processing jobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// RetryAllFailed flips the owner's failed jobs back to pending with a fresh
// attempt count, due immediately
func (r *queueJobRepository) RetryAllFailed(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE queue_jobs
		SET status = 'pending', attempt_number = 0, scheduled_at = NOW(), last_error = NULL
		WHERE user_id = $1 AND status = 'failed'
	`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to retry failed jobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// CountByStatus returns the owner's job counts by status
func (r *queueJobRepository) CountByStatus(ctx context.Context, userID string) (*domain.QueueStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) as pending,
			COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0) as processing,
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0) as succeeded,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed
		FROM queue_jobs
		WHERE user_id = $1
	`

	var stats domain.QueueStats
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.Pending, &stats.Processing, &stats.Succeeded, &stats.Failed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue stats: %w", err)
	}

	return &stats, nil
}

// GlobalStats returns job counts by status across all owners
func (r *queueJobRepository) GlobalStats(ctx context.Context) (*domain.QueueStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) as pending,
			COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0) as processing,
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0) as succeeded,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed
		FROM queue_jobs
	`

	var stats domain.QueueStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Pending, &stats.Processing, &stats.Succeeded, &stats.Failed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get global queue stats: %w", err)
	}

	return &stats, nil
}

// NextDueAt returns the earliest pending scheduled_at for the owner, or nil
// when the owner has no pending jobs
func (r *queueJobRepository) NextDueAt(ctx context.Context, userID string) (*time.Time, error) {
	query := `SELECT MIN(scheduled_at) FROM queue_jobs WHERE user_id = $1 AND status = 'pending'`

	var nextDue sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&nextDue); err != nil {
		return nil, fmt.Errorf("failed to get next due time: %w", err)
	}

	if !nextDue.Valid {
		return nil, nil
	}

	return &nextDue.Time, nil
}

// OwnersWithPending lists distinct owners holding pending jobs, used by the
// queue manager to discover shards that need a worker
func (r *queueJobRepository) OwnersWithPending(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT user_id
		FROM queue_jobs
		WHERE status = 'pending'
		ORDER BY user_id
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query owners with pending jobs: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owners: %w", err)
	}

	return owners, nil
}

// DeleteTerminalOlderThan removes settled jobs created before the cutoff
func (r *queueJobRepository) DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM queue_jobs WHERE status IN ('success', 'failed') AND created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete terminal jobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteByWebhook removes every job belonging to a webhook
func (r *queueJobRepository) DeleteByWebhook(ctx context.Context, webhookID string) (int64, error) {
	query := `DELETE FROM queue_jobs WHERE webhook_id = $1`

	result, err := r.db.ExecContext(ctx, query, webhookID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete webhook jobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// scanQueueJob scans a row into a QueueJob struct. The payload bytes are
// copied verbatim, never re-encoded.
func scanQueueJob(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.QueueJob, error) {
	var job domain.QueueJob
	var payload []byte
	var lastAttemptAt sql.NullTime
	var lastError sql.NullString

	err := scanner.Scan(
		&job.ID,
		&job.WebhookID,
		&job.UserID,
		&job.EventKind,
		&payload,
		&job.AttemptNumber,
		&job.Status,
		&job.ScheduledAt,
		&lastAttemptAt,
		&lastError,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Payload = payload

	if lastAttemptAt.Valid {
		job.LastAttemptAt = &lastAttemptAt.Time
	}
	if lastError.Valid {
		job.LastError = &lastError.String
	}

	return &job, nil
}
