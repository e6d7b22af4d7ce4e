// Command migrate manages the einvoice database schema.
package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/einvoice/backend/internal/infrastructure/config"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/infrastructure/migration"
	"github.com/einvoice/backend/migrations"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the einvoice database schema",
	Long: `migrate applies, rolls back and inspects the versioned SQL migrations.

Without --path the migrations compiled into the binary are used.
Connection settings come from config.toml, .env or EINV_DATABASE_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(&logger.Config{
			Level:      logLevel,
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "2006-01-02 15:04:05",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Up() })
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Down() })
	},
}

var stepsCmd = &cobra.Command{
	Use:     "steps <n>",
	Short:   "Apply n migrations (positive=up, negative=down)",
	Example: "  migrate steps -- -1",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
	},
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.GoTo(uint(version)) })
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the version without running migrations, clearing the dirty flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
	},
}

var createCmd = &cobra.Command{
	Use:     "create <name> [description]",
	Short:   "Create the next numbered migration pair",
	Example: `  migrate create add_invoice_note_index "Index invoices by note"`,
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		dir := migrationsPath
		if dir == "" {
			dir = defaultMigrationsDir
		}
		mf, err := migration.CreateMigration(dir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var fsys fs.FS = migrations.FS
		if migrationsPath != "" {
			fsys = os.DirFS(migrationsPath)
		}
		entries, err := migration.ListMigrations(fsys)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%06d  %s\n", e.Version, e.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (default: embedded migrations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, gotoCmd, versionCmd, forceCmd, createCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withMigrator opens the database and migration source, runs fn and
// releases both.
func withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var src source.Driver
	if migrationsPath != "" {
		src, err = migration.FileSource(migrationsPath)
	} else {
		src, err = migration.EmbeddedSource(migrations.FS)
	}
	if err != nil {
		return err
	}

	m, err := migration.New(db, src, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	log.Info("Migration started",
		zap.String("database", cfg.Database.DBName),
		zap.String("source", sourceName()),
	)
	return fn(m)
}

func sourceName() string {
	if migrationsPath == "" {
		return "embedded"
	}
	return migrationsPath
}
