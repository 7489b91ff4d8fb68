// Package testdb provides database setup for integration tests. Tests that
// need PostgreSQL call Open, which skips the test unless a database URL is
// configured.
package testdb

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/redact"
)

// Environment variables checked for a test database, in order.
const (
	EnvTestDatabaseURL = "VOCAB_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvVocabDatabase   = "VOCAB_DATABASE_URL"
)

// URL returns the first configured test database URL, or "".
func URL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL, EnvVocabDatabase} {
		if v := os.Getenv(name); v != "" {
			slog.Debug("using test database", "var", name, "url", redact.String(v))
			return v
		}
	}
	return ""
}

// IsCI reports whether the tests run under a CI system.
func IsCI() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// Open connects to the test database and applies all migrations. The test is
// skipped when no URL is configured, except in CI where that is a failure.
// The connection is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		if IsCI() {
			t.Fatalf("no test database configured; set %s", EnvTestDatabaseURL)
		}
		t.Skipf("%s not set", EnvTestDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, url)
	if err != nil {
		t.Fatalf("failed to open test database: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := postgres.Migrate(ctx, db, slog.Default()); err != nil {
		t.Fatalf("failed to migrate test database: %s", redact.Error(err))
	}
	return db
}

// Reset removes every user so each test starts from an empty store.
func Reset(t testing.TB, db *sql.DB) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), `TRUNCATE users`); err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
}
