package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/crypto"
)

// webhookRepository implements domain.WebhookRepository for PostgreSQL
type webhookRepository struct {
	db        *sql.DB
	secretKey string
}

// NewWebhookRepository creates a new PostgreSQL webhook repository. Signing
// secrets are encrypted with secretKey before they touch the table and
// decrypted on the way out.
func NewWebhookRepository(db *sql.DB, secretKey string) domain.WebhookRepository {
	return &webhookRepository{
		db:        db,
		secretKey: secretKey,
	}
}

const webhookColumns = `
	id, user_id, name, url, secret, events, filters, headers,
	timeout_ms, retry_enabled, max_retries, is_active,
	total_deliveries, successful_deliveries, failed_deliveries, consecutive_failures,
	last_triggered_at, last_success_at, last_failure_at, created_at, updated_at`

// Create creates a new webhook
func (r *webhookRepository) Create(ctx context.Context, webhook *domain.Webhook) error {
	now := time.Now().UTC()
	webhook.CreatedAt = now
	webhook.UpdatedAt = now

	encryptedSecret, err := crypto.EncryptString(webhook.Secret, r.secretKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt webhook secret: %w", err)
	}

	eventsJSON, filtersJSON, headersJSON, err := marshalWebhookJSON(webhook)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO webhooks (
			id, user_id, name, url, secret, events, filters, headers,
			timeout_ms, retry_enabled, max_retries, is_active,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		webhook.ID,
		webhook.UserID,
		webhook.Name,
		webhook.URL,
		encryptedSecret,
		eventsJSON,
		filtersJSON,
		headersJSON,
		webhook.TimeoutMs,
		webhook.RetryEnabled,
		webhook.MaxRetries,
		webhook.IsActive,
		webhook.CreatedAt,
		webhook.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}

	return nil
}

// GetByID retrieves a webhook by ID
func (r *webhookRepository) GetByID(ctx context.Context, id string) (*domain.Webhook, error) {
	query := `SELECT` + webhookColumns + `
		FROM webhooks
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	webhook, err := r.scanWebhook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "webhook", ID: id}
		}
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}

	return webhook, nil
}

// List retrieves the owner's webhooks, newest first. activeOnly narrows to
// active (true) or paused (false) webhooks.
func (r *webhookRepository) List(ctx context.Context, userID string, activeOnly *bool) ([]*domain.Webhook, error) {
	query := `SELECT` + webhookColumns + `
		FROM webhooks
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if activeOnly != nil {
		query += ` AND is_active = $2`
		args = append(args, *activeOnly)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []*domain.Webhook
	for rows.Next() {
		webhook, err := r.scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		webhooks = append(webhooks, webhook)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhooks: %w", err)
	}

	return webhooks, nil
}

// GetByOwnerAndEvent retrieves the owner's active webhooks whose event set
// covers the given kind, either explicitly or through the wildcard.
func (r *webhookRepository) GetByOwnerAndEvent(ctx context.Context, userID string, kind domain.EventKind) ([]*domain.Webhook, error) {
	kindJSON, err := json.Marshal([]string{string(kind)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event kind: %w", err)
	}

	query := `SELECT` + webhookColumns + `
		FROM webhooks
		WHERE user_id = $1
			AND is_active = TRUE
			AND (events @> $2::jsonb OR events @> '["*"]'::jsonb)
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, kindJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to query webhooks by event: %w", err)
	}
	defer rows.Close()

	var webhooks []*domain.Webhook
	for rows.Next() {
		webhook, err := r.scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		webhooks = append(webhooks, webhook)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhooks: %w", err)
	}

	return webhooks, nil
}

// Update updates an existing webhook
func (r *webhookRepository) Update(ctx context.Context, webhook *domain.Webhook) error {
	webhook.UpdatedAt = time.Now().UTC()

	encryptedSecret, err := crypto.EncryptString(webhook.Secret, r.secretKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt webhook secret: %w", err)
	}

	eventsJSON, filtersJSON, headersJSON, err := marshalWebhookJSON(webhook)
	if err != nil {
		return err
	}

	query := `
		UPDATE webhooks
		SET name = $2, url = $3, secret = $4, events = $5, filters = $6,
			headers = $7, timeout_ms = $8, retry_enabled = $9, max_retries = $10,
			is_active = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		webhook.ID,
		webhook.Name,
		webhook.URL,
		encryptedSecret,
		eventsJSON,
		filtersJSON,
		headersJSON,
		webhook.TimeoutMs,
		webhook.RetryEnabled,
		webhook.MaxRetries,
		webhook.IsActive,
		webhook.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update webhook: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "webhook", ID: webhook.ID}
	}

	return nil
}

// Delete removes a webhook together with its queued jobs. Delivery logs stay
// for the retention sweeper.
func (r *webhookRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM queue_jobs WHERE webhook_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete webhook jobs: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "webhook", ID: id}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RecordAttempt settles a terminal delivery outcome into the webhook's
// counters. All counter mutations ride one UPDATE so a crash between them
// cannot skew the totals.
func (r *webhookRepository) RecordAttempt(ctx context.Context, id string, success bool, at time.Time) error {
	query := `
		UPDATE webhooks
		SET total_deliveries = total_deliveries + 1,
			successful_deliveries = successful_deliveries + CASE WHEN $2 THEN 1 ELSE 0 END,
			failed_deliveries = failed_deliveries + CASE WHEN $2 THEN 0 ELSE 1 END,
			consecutive_failures = CASE WHEN $2 THEN 0 ELSE consecutive_failures + 1 END,
			last_triggered_at = $3,
			last_success_at = CASE WHEN $2 THEN $3 ELSE last_success_at END,
			last_failure_at = CASE WHEN $2 THEN last_failure_at ELSE $3 END
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, success, at)
	if err != nil {
		return fmt.Errorf("failed to record webhook attempt: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "webhook", ID: id}
	}

	return nil
}

// marshalWebhookJSON prepares the JSON columns. Empty filter and header maps
// store as NULL.
func marshalWebhookJSON(webhook *domain.Webhook) (eventsJSON, filtersJSON, headersJSON []byte, err error) {
	eventsJSON, err = json.Marshal(webhook.Events)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal events: %w", err)
	}

	if len(webhook.Filters) > 0 {
		filtersJSON, err = json.Marshal(webhook.Filters)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal filters: %w", err)
		}
	}

	if len(webhook.Headers) > 0 {
		headersJSON, err = json.Marshal(webhook.Headers)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal headers: %w", err)
		}
	}

	return eventsJSON, filtersJSON, headersJSON, nil
}

// scanWebhook scans a row into a Webhook struct, decrypting the stored
// secret on the way out
func (r *webhookRepository) scanWebhook(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Webhook, error) {
	var webhook domain.Webhook
	var encryptedSecret string
	var eventsJSON []byte
	var filtersJSON []byte
	var headersJSON []byte
	var lastTriggeredAt sql.NullTime
	var lastSuccessAt sql.NullTime
	var lastFailureAt sql.NullTime

	err := scanner.Scan(
		&webhook.ID,
		&webhook.UserID,
		&webhook.Name,
		&webhook.URL,
		&encryptedSecret,
		&eventsJSON,
		&filtersJSON,
		&headersJSON,
		&webhook.TimeoutMs,
		&webhook.RetryEnabled,
		&webhook.MaxRetries,
		&webhook.IsActive,
		&webhook.TotalDeliveries,
		&webhook.SuccessfulDeliveries,
		&webhook.FailedDeliveries,
		&webhook.ConsecutiveFailures,
		&lastTriggeredAt,
		&lastSuccessAt,
		&lastFailureAt,
		&webhook.CreatedAt,
		&webhook.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	secret, err := crypto.DecryptFromHexString(encryptedSecret, r.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt webhook secret: %w", err)
	}
	webhook.Secret = secret

	if err := json.Unmarshal(eventsJSON, &webhook.Events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	if len(filtersJSON) > 0 {
		if err := json.Unmarshal(filtersJSON, &webhook.Filters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal filters: %w", err)
		}
	}
	if len(headersJSON) > 0 {
		if err := json.Unmarshal(headersJSON, &webhook.Headers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal headers: %w", err)
		}
	}

	if lastTriggeredAt.Valid {
		webhook.LastTriggeredAt = &lastTriggeredAt.Time
	}
	if lastSuccessAt.Valid {
		webhook.LastSuccessAt = &lastSuccessAt.Time
	}
	if lastFailureAt.Valid {
		webhook.LastFailureAt = &lastFailureAt.Time
	}

	return &webhook, nil
}
