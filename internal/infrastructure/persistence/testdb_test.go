package persistence

import (
	"testing"

	"github.com/einvoice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with every table migrated.
// The pool keeps its single connection idle so the schema survives between queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}
