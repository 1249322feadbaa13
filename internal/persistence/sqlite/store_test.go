package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/example/housekeeping/internal/persistence/sqlite/migration"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(migration.InMemoryTestSQLiteConfig(), logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return store
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	store := setupStore(t)

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
