package testutils

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/taskwell/taskwell-api/migrations"
)

// testDatabaseURLEnv names the environment variable carrying the test
// database connection string.
const testDatabaseURLEnv = "DATABASE_URL"

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv(testDatabaseURLEnv) != ""
}

// MustGetTestDatabaseURL returns the test database URL or panics.
// Call IsIntegrationTestEnvironment first.
func MustGetTestDatabaseURL() string {
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		// ALLOW-PANIC: test setup precondition
		panic(fmt.Sprintf("%s is not set", testDatabaseURLEnv))
	}
	return url
}

// SetupTestDatabaseSchema brings the test database to the current schema by
// running the embedded migrations.
func SetupTestDatabaseSchema(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// WithTx runs the test function inside a transaction that is always rolled
// back, so tests never leave data behind and can run in parallel.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// DiscardLogger returns a logger for store constructors in tests.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
