package migrations

import (
	"sort"
	"sync"
)

// DefaultRegistry holds every schema migration linked into the binary.
// Migration files register themselves in init, so importing the package is
// enough to make them runnable.
var DefaultRegistry = NewRegistry()

// MigrationRegistryImpl implements MigrationRegistry with a version-keyed map
type MigrationRegistryImpl struct {
	mu        sync.RWMutex
	byVersion map[float64]MajorMigrationInterface
}

// NewRegistry creates an empty migration registry
func NewRegistry() *MigrationRegistryImpl {
	return &MigrationRegistryImpl{
		byVersion: make(map[float64]MajorMigrationInterface),
	}
}

// Register adds a migration, replacing any earlier one with the same version
func (r *MigrationRegistryImpl) Register(migration MajorMigrationInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byVersion[migration.GetMajorVersion()] = migration
}

// GetMigrations returns the registered migrations in ascending version order,
// the order the manager applies them in
func (r *MigrationRegistryImpl) GetMigrations() []MajorMigrationInterface {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]MajorMigrationInterface, 0, len(r.byVersion))
	for _, migration := range r.byVersion {
		ordered = append(ordered, migration)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].GetMajorVersion() < ordered[j].GetMajorVersion()
	})
	return ordered
}

// GetMigration looks up one migration by its major version
func (r *MigrationRegistryImpl) GetMigration(version float64) (MajorMigrationInterface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	migration, ok := r.byVersion[version]
	return migration, ok
}

// Register adds a migration to DefaultRegistry
func Register(migration MajorMigrationInterface) {
	DefaultRegistry.Register(migration)
}

// GetRegisteredMigrations returns DefaultRegistry's migrations in version order
func GetRegisteredMigrations() []MajorMigrationInterface {
	return DefaultRegistry.GetMigrations()
}

// GetRegisteredMigration looks up one migration in DefaultRegistry
func GetRegisteredMigration(version float64) (MajorMigrationInterface, bool) {
	return DefaultRegistry.GetMigration(version)
}
