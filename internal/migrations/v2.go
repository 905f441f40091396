package migrations

import (
	"context"
	"fmt"

	"github.com/hookforge/hookforge/config"
)

// V2Migration implements the migration from version 1.x to 2.0
type V2Migration struct{}

// GetMajorVersion returns the major version this migration handles
func (m *V2Migration) GetMajorVersion() float64 {
	return 2.0
}

// ShouldRestartServer indicates if the server needs a restart after this migration
func (m *V2Migration) ShouldRestartServer() bool {
	return false
}

// Update executes the migration changes
func (m *V2Migration) Update(ctx context.Context, config *config.Config, db DBExecutor) error {
	// Payload filters arrived in 2.0
	// Using IF NOT EXISTS to make the migration idempotent
	_, err := db.ExecContext(ctx, `
		ALTER TABLE webhooks
		ADD COLUMN IF NOT EXISTS filters JSONB
	`)
	if err != nil {
		return fmt.Errorf("failed to add filters column to webhooks table: %w", err)
	}

	// Logs started carrying a payload copy in 2.0 so deliveries can be
	// replayed after the queue job is swept
	_, err = db.ExecContext(ctx, `
		ALTER TABLE webhook_logs
		ADD COLUMN IF NOT EXISTS payload TEXT
	`)
	if err != nil {
		return fmt.Errorf("failed to add payload column to webhook_logs table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_webhook_logs_webhook_created
		ON webhook_logs (webhook_id, created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create webhook_logs listing index: %w", err)
	}

	return nil
}

// init registers this migration with the default registry
func init() {
	Register(&V2Migration{})
}
