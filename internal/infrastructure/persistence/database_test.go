package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/einvoice/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{config.DriverPostgres, "postgres"},
		{"", "postgres"},
		{config.DriverMySQL, "mysql"},
		{config.DriverSQLite, "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.driver, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Driver: tt.driver, Path: "test.db", Host: "localhost", Port: 5432})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         ":memory:",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())
	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections, "sqlite is capped to a single connection")

	require.NoError(t, db.AutoMigrate())
	assert.True(t, db.DB.Migrator().HasTable("invoices"))
	assert.True(t, db.DB.Migrator().HasTable("inventory_items"))
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()

	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

// The conditional UPDATE is what keeps concurrent reservations from overselling.
func TestInventoryItemRepository_DecrementStockStatement(t *testing.T) {
	const stmt = `UPDATE "inventory_items" SET .*current_stock - .* WHERE id = .* AND current_stock >= `

	t.Run("row updated", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := NewGormInventoryItemRepository(db.DB).DecrementStock(context.Background(), uuid.New(), decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard not met", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := NewGormInventoryItemRepository(db.DB).DecrementStock(context.Background(), uuid.New(), decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(stmt).WillReturnError(sql.ErrConnDone)

		_, err := NewGormInventoryItemRepository(db.DB).DecrementStock(context.Background(), uuid.New(), decimal.NewFromInt(3))
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("rollback on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.DB.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
