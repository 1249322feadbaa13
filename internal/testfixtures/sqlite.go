package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/housekeeping/internal/persistence"
	"github.com/example/housekeeping/internal/persistence/sqlite"
	"github.com/example/housekeeping/internal/persistence/sqlite/migration"
)

// NewSQLiteStore opens a migrated SQLite store in a temporary directory. The
// store is closed when the test ends.
func NewSQLiteStore(tb testing.TB) persistence.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "housekeeping.db")
	store, err := sqlite.Open(migration.DefaultSQLiteConfig(path), DiscardLogger())
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	tb.Cleanup(func() { _ = store.Close() })
	return store
}
