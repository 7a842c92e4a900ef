// Package integration spins up a real PostgreSQL instance with
// testcontainers and exercises the HTTP API against it.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a disposable postgres instance with the legacy tables and all
// party-model migrations in place
type TestDB struct {
	DB *gorm.DB

	sqlDB     *sql.DB
	container testcontainers.Container
	t         *testing.T
}

// NewTestDB starts a postgres container, creates the legacy schema and runs
// the migrations. Cleanup is registered on t.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("agribase_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "read container connection string")

	tdb := &TestDB{container: container, t: t}
	tdb.DB, tdb.sqlDB = openGorm(t, dsn)

	t.Cleanup(tdb.shutdown)

	// The party migrations reference the denormalized tables, which in
	// production predate this codebase. Tests create them first.
	tdb.createLegacySchema()
	applyMigrations(t, tdb.sqlDB)

	return tdb
}

func (tdb *TestDB) shutdown() {
	if tdb.sqlDB != nil {
		_ = tdb.sqlDB.Close()
	}
	if tdb.container != nil {
		if err := tdb.container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("terminate container: %v", err)
		}
	}
}

func openGorm(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	logLevel := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "open gorm connection")

	sqlDB, err := db.DB()
	require.NoError(t, err, "unwrap sql.DB")
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func (tdb *TestDB) createLegacySchema() {
	tdb.t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS farms (
			id UUID PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			subscription_plan VARCHAR(50),
			timezone VARCHAR(100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			phone VARCHAR(50),
			is_system_admin BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS farm_members (
			id UUID PRIMARY KEY,
			farm_id UUID NOT NULL REFERENCES farms (id),
			user_id UUID NOT NULL REFERENCES users (id),
			role VARCHAR(50),
			permissions JSONB,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			farm_id UUID NOT NULL REFERENCES farms (id),
			name VARCHAR(200) NOT NULL,
			business_name VARCHAR(200),
			email VARCHAR(255),
			phone VARCHAR(50),
			address VARCHAR(500),
			tax_id VARCHAR(100),
			payment_terms VARCHAR(100),
			credit_limit NUMERIC(14, 2),
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY,
			farm_id UUID NOT NULL REFERENCES farms (id),
			name VARCHAR(200) NOT NULL,
			email VARCHAR(255),
			phone VARCHAR(50),
			address VARCHAR(500),
			tax_id VARCHAR(100),
			payment_terms VARCHAR(100),
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			farm_id UUID NOT NULL REFERENCES farms (id),
			customer_id UUID NOT NULL REFERENCES customers (id),
			total NUMERIC(14, 2) NOT NULL DEFAULT 0,
			order_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		require.NoError(tdb.t, tdb.DB.Exec(stmt).Error, "create legacy schema")
	}
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := locateMigrations(t)

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "create migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	require.NoError(t, err, "create migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "apply migrations")
	}
}

// locateMigrations walks up from this file until it finds the migrations
// directory at the repository root
func locateMigrations(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "resolve caller path")

	dir := filepath.Dir(filename)
	for range 5 {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	t.Fatal("migrations directory not found above", filepath.Dir(filename))
	return ""
}

// CreateTestFarm inserts a farm row and returns its id
func (tdb *TestDB) CreateTestFarm(name string) uuid.UUID {
	tdb.t.Helper()

	id := uuid.New()
	err := tdb.DB.Exec(`
		INSERT INTO farms (id, name, subscription_plan, timezone)
		VALUES (?, ?, 'basic', 'UTC')
	`, id, name).Error
	require.NoError(tdb.t, err, "insert test farm")
	return id
}

// CreateTestUser inserts a user row and returns its id
func (tdb *TestDB) CreateTestUser(email string, isSystemAdmin bool) uuid.UUID {
	tdb.t.Helper()

	id := uuid.New()
	err := tdb.DB.Exec(`
		INSERT INTO users (id, email, first_name, last_name, is_system_admin)
		VALUES (?, ?, 'Test', 'User', ?)
	`, id, email, isSystemAdmin).Error
	require.NoError(tdb.t, err, "insert test user")
	return id
}

// CreateTestMembership links a user to a farm with an active membership
func (tdb *TestDB) CreateTestMembership(userID, farmID uuid.UUID) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO farm_members (id, farm_id, user_id, role, active)
		VALUES (?, ?, ?, 'member', true)
	`, uuid.New(), farmID, userID).Error
	require.NoError(tdb.t, err, "insert test membership")
}
