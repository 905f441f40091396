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

// deliveryLogRepository implements domain.DeliveryLogRepository for PostgreSQL
type deliveryLogRepository struct {
	db *sql.DB
}

// NewDeliveryLogRepository creates a new PostgreSQL delivery log repository
func NewDeliveryLogRepository(db *sql.DB) domain.DeliveryLogRepository {
	return &deliveryLogRepository{db: db}
}

const deliveryLogColumns = `
	id, webhook_id, event_kind, url, attempt_number, status, status_code,
	response_body, elapsed_ms, error, payload, next_retry_at, delivered_at, created_at`

// Create appends one delivery attempt record. Rows are never updated.
func (r *deliveryLogRepository) Create(ctx context.Context, log *domain.DeliveryLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now().UTC()

	var payload []byte
	if len(log.Payload) > 0 {
		payload = []byte(log.Payload)
	}

	query := `
		INSERT INTO webhook_logs (
			id, webhook_id, event_kind, url, attempt_number, status, status_code,
			response_body, elapsed_ms, error, payload, next_retry_at, delivered_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.WebhookID,
		log.EventKind,
		log.URL,
		log.AttemptNumber,
		log.Status,
		log.StatusCode,
		log.ResponseBody,
		log.ElapsedMs,
		log.Error,
		payload,
		log.NextRetryAt,
		log.DeliveredAt,
		log.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create delivery log: %w", err)
	}

	return nil
}

// GetByID retrieves a delivery log by ID
func (r *deliveryLogRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryLog, error) {
	query := `SELECT` + deliveryLogColumns + `
		FROM webhook_logs
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	log, err := scanDeliveryLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "delivery log", ID: id}
		}
		return nil, fmt.Errorf("failed to get delivery log: %w", err)
	}

	return log, nil
}

// ListByWebhook retrieves a page of the webhook's logs, newest first, plus
// the total row count under the same filter. successFilter narrows to
// success rows (true) or to retrying and failed rows (false).
func (r *deliveryLogRepository) ListByWebhook(ctx context.Context, webhookID string, limit, offset int, successFilter *bool) ([]*domain.DeliveryLog, int, error) {
	where := `WHERE webhook_id = $1`
	if successFilter != nil {
		if *successFilter {
			where += ` AND status = 'success'`
		} else {
			where += ` AND status IN ('retrying', 'failed')`
		}
	}

	countQuery := `SELECT COUNT(*) FROM webhook_logs ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, webhookID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count delivery logs: %w", err)
	}

	query := `SELECT` + deliveryLogColumns + `
		FROM webhook_logs
		` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, webhookID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query delivery logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.DeliveryLog
	for rows.Next() {
		log, err := scanDeliveryLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating delivery logs: %w", err)
	}

	return logs, total, nil
}

// RecentFailures retrieves the latest non-success rows for the webhook
func (r *deliveryLogRepository) RecentFailures(ctx context.Context, webhookID string, limit int) ([]*domain.DeliveryLog, error) {
	query := `SELECT` + deliveryLogColumns + `
		FROM webhook_logs
		WHERE webhook_id = $1 AND status IN ('retrying', 'failed')
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, webhookID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent failures: %w", err)
	}
	defer rows.Close()

	var logs []*domain.DeliveryLog
	for rows.Next() {
		log, err := scanDeliveryLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery logs: %w", err)
	}

	return logs, nil
}

// DeleteOlderThan removes rows past the retention window
func (r *deliveryLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM webhook_logs WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete delivery logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// scanDeliveryLog scans a row into a DeliveryLog struct
func scanDeliveryLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.DeliveryLog, error) {
	var log domain.DeliveryLog
	var statusCode sql.NullInt64
	var errText sql.NullString
	var payload []byte
	var nextRetryAt sql.NullTime
	var deliveredAt sql.NullTime

	err := scanner.Scan(
		&log.ID,
		&log.WebhookID,
		&log.EventKind,
		&log.URL,
		&log.AttemptNumber,
		&log.Status,
		&statusCode,
		&log.ResponseBody,
		&log.ElapsedMs,
		&errText,
		&payload,
		&nextRetryAt,
		&deliveredAt,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if statusCode.Valid {
		code := int(statusCode.Int64)
		log.StatusCode = &code
	}
	if errText.Valid {
		log.Error = &errText.String
	}
	if len(payload) > 0 {
		log.Payload = payload
	}
	if nextRetryAt.Valid {
		log.NextRetryAt = &nextRetryAt.Time
	}
	if deliveredAt.Valid {
		log.DeliveredAt = &deliveredAt.Time
	}

	return &log, nil
}
