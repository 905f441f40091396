// Package schema defines the database schema for development.
//
// DEVELOPMENT USE ONLY
// This file contains the current database schema and is used for development and testing.
// Before deploying to production, these table definitions should be converted to proper migrations.
package schema

// TableDefinitions contains all the SQL statements to create the database tables
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS webhooks (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		url TEXT NOT NULL,
		secret TEXT NOT NULL,  -- encrypted with the process SECRET_KEY, never stored in clear
		events JSONB NOT NULL DEFAULT '[]'::jsonb,
		filters JSONB,
		headers JSONB,
		timeout_ms INTEGER NOT NULL DEFAULT 0,
		retry_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		max_retries INTEGER NOT NULL DEFAULT 3,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		total_deliveries BIGINT NOT NULL DEFAULT 0,
		successful_deliveries BIGINT NOT NULL DEFAULT 0,
		failed_deliveries BIGINT NOT NULL DEFAULT 0,
		consecutive_failures BIGINT NOT NULL DEFAULT 0,
		last_triggered_at TIMESTAMP,
		last_success_at TIMESTAMP,
		last_failure_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS queue_jobs (
		id VARCHAR(64) PRIMARY KEY,
		webhook_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		event_kind VARCHAR(50) NOT NULL,
		payload TEXT NOT NULL,  -- frozen JSON bytes, delivered verbatim
		attempt_number INTEGER NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL,
		scheduled_at TIMESTAMP NOT NULL,
		last_attempt_at TIMESTAMP,
		last_error TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_logs (
		id VARCHAR(64) PRIMARY KEY,
		webhook_id VARCHAR(64) NOT NULL,
		event_kind VARCHAR(50) NOT NULL,
		url TEXT NOT NULL,
		attempt_number INTEGER NOT NULL,
		status VARCHAR(20) NOT NULL,
		status_code INTEGER,
		response_body TEXT,
		elapsed_ms BIGINT NOT NULL DEFAULT 0,
		error TEXT,
		payload TEXT,
		next_retry_at TIMESTAMP,
		delivered_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(255) PRIMARY KEY,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_webhooks_user_id ON webhooks (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhooks_events ON webhooks USING GIN (events)`,
	`CREATE INDEX IF NOT EXISTS idx_queue_jobs_user_status_scheduled ON queue_jobs (user_id, status, scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_queue_jobs_status_scheduled ON queue_jobs (status, scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_queue_jobs_webhook_id ON queue_jobs (webhook_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_logs_webhook_created ON webhook_logs (webhook_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_logs_created_at ON webhook_logs (created_at)`,
}

// MigrationStatements contains SQL statements to be run after table creation
// These are for schema changes that need to be applied to existing databases
var MigrationStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'webhooks' AND column_name = 'filters'
		) THEN
			ALTER TABLE webhooks ADD COLUMN filters JSONB;
		END IF;
	EXCEPTION
		WHEN duplicate_column THEN
			-- Column already exists, ignore
			NULL;
	END $$`,
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'webhook_logs' AND column_name = 'payload'
		) THEN
			ALTER TABLE webhook_logs ADD COLUMN payload TEXT;
		END IF;
	EXCEPTION
		WHEN duplicate_column THEN
			NULL;
	END $$`,
}

// GetMigrationStatements returns migration statements for database schema setup
func GetMigrationStatements() []string {
	return MigrationStatements
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"webhooks",
	"queue_jobs",
	"webhook_logs",
	"settings",
}
