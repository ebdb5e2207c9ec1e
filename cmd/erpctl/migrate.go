package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/bizledger/backend/internal/bootstrap"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/migration"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply every pending migration.

Migrations compiled into the binary are used unless --dir points at a
directory on disk. For the sqlite driver the schema is built from the
models and only this command (no subcommand) is supported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if cfg.Database.Driver == persistence.DriverSQLite {
			return autoMigrateSQLite(cfg)
		}
		return withMigrator(cfg, func(m *migration.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every applied migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrator(func(m *migration.Migrator) error {
			return m.Down()
		})
	},
}

var migrateStepsCmd = &cobra.Command{
	Use:   "steps <n>",
	Short: "Apply n migrations, or roll back when n is negative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n == 0 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return runMigrator(func(m *migration.Migrator) error {
			if err := m.Steps(n); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateGotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return runMigrator(func(m *migration.Migrator) error {
			if err := m.GoTo(uint(version)); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrator(func(m *migration.Migrator) error {
			return printVersion(cmd, m)
		})
	},
}

var migrateForceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running migrations and clear the dirty flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return runMigrator(func(m *migration.Migrator) error {
			return m.Force(version)
		})
	},
}

var dropConfirmed bool

var migrateDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !dropConfirmed {
			return errors.New("refusing to drop without --confirm")
		}
		return runMigrator(func(m *migration.Migrator) error {
			return m.Drop()
		})
	},
}

var migrateCreateCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Write an empty up/down migration pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) == 2 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(sourceDir(), args[0], description)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n        %s\n", mf.UpPath, mf.DownPath)
		return nil
	},
}

var migrateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the migrations in the migrations directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := migration.ListMigrations(sourceDir())
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func sourceDir() string {
	if migrationsDir != "" {
		return migrationsDir
	}
	return defaultMigrationsDir
}

func printVersion(cmd *cobra.Command, m *migration.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (dirty=%t)\n", version, dirty)
	return nil
}

func runMigrator(fn func(m *migration.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver == persistence.DriverSQLite {
		return errors.New("the sqlite schema is built from the models; only 'migrate' is supported")
	}
	return withMigrator(cfg, fn)
}

// withMigrator opens a dedicated postgres connection; closing the migrator
// closes it as well
func withMigrator(cfg *config.Config, fn func(m *migration.Migrator) error) error {
	log, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsDir != "" {
		m, err = migration.New(db, migrationsDir, log)
	} else {
		m, err = migration.NewEmbedded(db, log)
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn("Failed to close migrator", zap.Error(cerr))
		}
	}()
	return fn(m)
}

func autoMigrateSQLite(cfg *config.Config) error {
	db, err := persistence.NewDatabase(&cfg.Database, nil)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	fmt.Printf("sqlite schema at %s is up to date\n", cfg.Database.SQLitePath)
	return nil
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "read migrations from this directory instead of the embedded set")
	migrateDropCmd.Flags().BoolVar(&dropConfirmed, "confirm", false, "confirm dropping every table")

	migrateCmd.AddCommand(migrateDownCmd, migrateStepsCmd, migrateGotoCmd, migrateVersionCmd,
		migrateForceCmd, migrateDropCmd, migrateCreateCmd, migrateListCmd)
	rootCmd.AddCommand(migrateCmd)
}
