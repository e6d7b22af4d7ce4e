// Package migration applies the versioned SQL schema with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator moves a postgres schema between migration versions
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// FileSource reads migrations from a directory on disk
func FileSource(dir string) (source.Driver, error) {
	drv, err := (&file.File{}).Open("file://" + dir)
	if err != nil {
		return nil, fmt.Errorf("open migrations directory %s: %w", dir, err)
	}
	return drv, nil
}

// EmbeddedSource reads migrations from the root of fsys
func EmbeddedSource(fsys fs.FS) (source.Driver, error) {
	drv, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return drv, nil
}

func New(db *sql.DB, src source.Driver, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("source", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger.Named("migrate")}, nil
}

// apply runs one golang-migrate operation. ErrNoChange counts as success.
func (m *Migrator) apply(op string, run func() error) error {
	err := run()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already current", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Schema migrated",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.apply("up", m.migrate.Up)
}

// Down rolls back every applied migration
func (m *Migrator) Down() error {
	return m.apply("down", m.migrate.Down)
}

// Steps applies n migrations; negative n rolls back
func (m *Migrator) Steps(n int) error {
	return m.apply(fmt.Sprintf("steps %d", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.apply(fmt.Sprintf("goto %d", version), func() error { return m.migrate.Migrate(version) })
}

// Version returns the applied version, 0 when the schema is empty
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running anything. It clears the
// dirty flag left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}
