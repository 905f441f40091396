package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hookforge/hookforge/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV2Migration_GetMajorVersion(t *testing.T) {
	migration := &V2Migration{}
	assert.Equal(t, 2.0, migration.GetMajorVersion())
}

func TestV2Migration_ShouldRestartServer(t *testing.T) {
	migration := &V2Migration{}
	assert.False(t, migration.ShouldRestartServer())
}

func TestV2Migration_Update_Success(t *testing.T) {
	migration := &V2Migration{}
	ctx := context.Background()
	config := &config.Config{}

	// Create mock database
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("ALTER TABLE webhooks ADD COLUMN IF NOT EXISTS filters JSONB").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER TABLE webhook_logs ADD COLUMN IF NOT EXISTS payload TEXT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_webhook_logs_webhook_created").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Execute migration
	err = migration.Update(ctx, config, db)
	assert.NoError(t, err)

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestV2Migration_Update_AlterTableFails(t *testing.T) {
	migration := &V2Migration{}
	ctx := context.Background()
	config := &config.Config{}

	// Create mock database
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// Mock the ALTER TABLE query to fail
	mock.ExpectExec("ALTER TABLE webhooks ADD COLUMN IF NOT EXISTS filters JSONB").
		WillReturnError(sql.ErrConnDone)

	// Execute migration
	err = migration.Update(ctx, config, db)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add filters column to webhooks table")

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestV2Migration_Registration(t *testing.T) {
	// Test that V2Migration is registered in the default registry
	migration, exists := GetRegisteredMigration(2.0)
	assert.True(t, exists, "V2Migration should be registered")
	assert.NotNil(t, migration, "V2Migration should not be nil")
	assert.IsType(t, &V2Migration{}, migration, "Should be V2Migration type")
}
