package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator wraps golang-migrate with logging and a file source rooted at the
// migrations directory
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New builds a Migrator over an open postgres connection
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error {
	return mg.logOutcome("apply migrations", mg.m.Up())
}

// Down rolls every migration back
func (mg *Migrator) Down() error {
	return mg.logOutcome("roll back migrations", mg.m.Down())
}

// Steps applies n migrations forward, or -n backward
func (mg *Migrator) Steps(n int) error {
	return mg.logOutcome(fmt.Sprintf("step %d", n), mg.m.Steps(n))
}

// GoTo migrates up or down until the schema sits at the given version
func (mg *Migrator) GoTo(version uint) error {
	return mg.logOutcome(fmt.Sprintf("migrate to version %d", version), mg.m.Migrate(version))
}

// Version reports the current schema version. A database with no applied
// migrations reports version 0, not an error.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL. Only for
// recovering a dirty schema after a failed migration.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("forcing migration version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

// logOutcome folds the three outcomes every migrate call shares: applied,
// nothing to do, or failed
func (mg *Migrator) logOutcome(action string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("schema already up to date", zap.String("action", action))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	version, dirty, verr := mg.m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", verr)
	}
	mg.log.Info("migrations applied",
		zap.String("action", action),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
