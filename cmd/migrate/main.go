package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agribase/backend/internal/infrastructure/config"
	"github.com/agribase/backend/internal/infrastructure/logger"
	"github.com/agribase/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	pathFlag := flag.String("path", "migrations", "Path to the migrations directory")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	migrationsPath, err := filepath.Abs(*pathFlag)
	if err != nil {
		log.Fatal("Cannot resolve migrations path", zap.Error(err))
	}

	if err := run(args, migrationsPath, log); err != nil {
		if errors.Is(err, errUnknownCommand) {
			usage()
		}
		log.Fatal("Command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

var errUnknownCommand = errors.New("unknown command")

func run(args []string, migrationsPath string, log *zap.Logger) error {
	command := args[0]

	// create and list operate on files only
	switch command {
	case "create":
		return runCreate(args[1:], migrationsPath, log)
	case "list":
		return runList(migrationsPath, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "target version")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("target version must not be negative")
		}
		return m.GoTo(uint(v))
	case "force":
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied yet")
		} else {
			log.Info("Current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		return nil
	default:
		return errUnknownCommand
	}
}

func runCreate(args []string, migrationsPath string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("migration name required, e.g. migrate create add_party_tables")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(migrationsPath, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration pair created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func runList(migrationsPath string, log *zap.Logger) error {
	names, err := migration.ListMigrations(migrationsPath)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		log.Info("No migrations found", zap.String("path", migrationsPath))
		return nil
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, name := range names {
		fmt.Println("  -", name)
	}
	return nil
}

func intArg(args []string, what string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[1])
	}
	return n, nil
}

func usage() {
	fmt.Println(`AgriBase schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative n rolls back)
  goto <version>        Migrate up or down to a specific version
  version               Show the current schema version
  force <version>       Overwrite the recorded version (dirty-state recovery)
  create <name> [desc]  Create an empty up/down migration pair
  list                  List migration pairs on disk

Flags:
  -path string          Migrations directory (default "migrations")
  -log-level string     debug, info, warn or error (default "info")

Database connection comes from config.toml or the AGRIBASE_DATABASE_*
environment variables.

Examples:
  migrate up
  migrate step -1
  migrate create add_party_tables "Party model schema"`)
}
