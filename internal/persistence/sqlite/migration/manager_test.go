package migration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"
)

func newTestManager(t *testing.T, files fstest.MapFS) (*MigrationManager, func()) {
	t.Helper()

	db, err := OpenDatabase(InMemoryTestSQLiteConfig())
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewMigrationManager(NewFileScanner(files), NewSQLiteExecutor(db), "migrations", logger)
	return manager, func() { db.Close() }
}

func TestMigrationManager_RunMigrations(t *testing.T) {
	files := fstest.MapFS{
		"migrations/001_create_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"migrations/002_create_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER PRIMARY KEY, a_id INTEGER REFERENCES a(id));\nCREATE INDEX idx_b_a ON b(a_id);")},
	}
	manager, cleanup := newTestManager(t, files)
	defer cleanup()

	ctx := context.Background()
	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	status, err := manager.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus failed: %v", err)
	}
	if status.CurrentVersion != "002" {
		t.Errorf("expected current version 002, got %q", status.CurrentVersion)
	}
	if status.PendingCount != 0 {
		t.Errorf("expected no pending migrations, got %d", status.PendingCount)
	}

	// Second run is a no-op.
	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}
}

func TestMigrationManager_RollsBackFailedMigration(t *testing.T) {
	files := fstest.MapFS{
		"migrations/001_create_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"migrations/002_broken.sql":   {Data: []byte("CREATE TABLE c (id INTEGER);\nINSERT INTO missing_table VALUES (1);")},
	}
	manager, cleanup := newTestManager(t, files)
	defer cleanup()

	ctx := context.Background()
	err := manager.RunMigrations(ctx)
	if !errors.Is(err, ErrMigrationFailed) {
		t.Fatalf("expected ErrMigrationFailed, got %v", err)
	}

	status, err := manager.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus failed: %v", err)
	}
	if status.CurrentVersion != "001" {
		t.Errorf("expected only 001 to be applied, got %q", status.CurrentVersion)
	}
	if status.PendingCount != 1 {
		t.Errorf("expected broken migration to remain pending, got %d", status.PendingCount)
	}
}

func TestMigrationManager_DetectsMissingAppliedFile(t *testing.T) {
	files := fstest.MapFS{
		"migrations/001_create_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
	}
	manager, cleanup := newTestManager(t, files)
	defer cleanup()

	ctx := context.Background()
	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	manager.scanner = NewFileScanner(fstest.MapFS{
		"migrations/002_other.sql": {Data: []byte("CREATE TABLE z (id INTEGER);")},
	})
	if _, err := manager.GetPendingMigrations(ctx); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}
