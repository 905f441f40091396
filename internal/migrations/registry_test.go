package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookforge/hookforge/config"
)

type fakeMigration struct {
	version         float64
	restartRequired bool
}

func (m *fakeMigration) GetMajorVersion() float64 { return m.version }

func (m *fakeMigration) ShouldRestartServer() bool { return m.restartRequired }

func (m *fakeMigration) Update(ctx context.Context, cfg *config.Config, db DBExecutor) error {
	return nil
}

func TestRegistry_RegisterReplacesSameVersion(t *testing.T) {
	registry := NewRegistry()

	first := &fakeMigration{version: 3.0}
	second := &fakeMigration{version: 3.0, restartRequired: true}

	registry.Register(first)
	registry.Register(second)

	found, exists := registry.GetMigration(3.0)
	require.True(t, exists)
	assert.Same(t, second, found)
	assert.Len(t, registry.GetMigrations(), 1)
}

func TestRegistry_GetMigrationsSortedByVersion(t *testing.T) {
	registry := NewRegistry()

	// Registration order is arbitrary; application order is not
	registry.Register(&fakeMigration{version: 3.0})
	registry.Register(&fakeMigration{version: 1.0})
	registry.Register(&fakeMigration{version: 2.0})

	ordered := registry.GetMigrations()
	require.Len(t, ordered, 3)
	assert.Equal(t, 1.0, ordered[0].GetMajorVersion())
	assert.Equal(t, 2.0, ordered[1].GetMajorVersion())
	assert.Equal(t, 3.0, ordered[2].GetMajorVersion())
}

func TestRegistry_Empty(t *testing.T) {
	registry := NewRegistry()

	assert.Empty(t, registry.GetMigrations())
	_, exists := registry.GetMigration(9.0)
	assert.False(t, exists)
}

func TestDefaultRegistry_HasV2(t *testing.T) {
	shipped := GetRegisteredMigrations()
	require.NotEmpty(t, shipped, "default registry should hold the shipped migrations")

	migration, exists := GetRegisteredMigration(2.0)
	assert.True(t, exists, "v2 registers itself via init")
	assert.NotNil(t, migration)
}
