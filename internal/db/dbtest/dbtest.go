// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"testing" // Test helpers

	"finance_tracker/internal/config" // Configuration
	"finance_tracker/internal/db"     // Store setup

	"github.com/stretchr/testify/require" // Test assertions
	"gorm.io/gorm"                        // GORM ORM library
)

// Open returns a fresh in-memory SQLite store with the schema applied.
// The connection is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	store, err := db.Open(&config.Config{DBDriver: config.DriverSQLite, DBPath: "file::memory:", IsProd: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(store))
	t.Cleanup(func() {
		if sqlDB, err := store.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store
}
