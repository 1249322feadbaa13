package testfixtures

import (
	"context"
	"net/http"
	"testing"

	"github.com/example/housekeeping/internal/application"
	"github.com/example/housekeeping/internal/persistence"
)

func TestNewAppSeedsDemoData(t *testing.T) {
	t.Parallel()

	app := NewApp(t)
	ctx := context.Background()

	users, err := app.Store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != len(application.DefaultSeedUsers) {
		t.Fatalf("expected %d seeded users, got %d", len(application.DefaultSeedUsers), len(users))
	}

	rooms, err := app.Store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != len(application.DefaultSeedRooms) {
		t.Fatalf("expected %d seeded rooms, got %d", len(application.DefaultSeedRooms), len(rooms))
	}

	_, total, err := app.Store.ListLogs(ctx, persistence.LogFilter{})
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if total != 0 {
		t.Fatalf("seeding must not write activity entries, got %d", total)
	}
}

func TestAppLoginUsesDeterministicTokenIDs(t *testing.T) {
	t.Parallel()

	app := NewApp(t)
	cookie := app.Login(t, AdminEmail, AdminPassword)

	identity, err := app.Codec.Verify(cookie.Value)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.TokenID != "jti-1" || app.TokenIDs.Last() != "jti-1" {
		t.Fatalf("unexpected token id %q", identity.TokenID)
	}
	if identity.UserID != app.UserID(t, AdminEmail) {
		t.Fatalf("token carries user %d", identity.UserID)
	}
}

func TestAppWithSQLiteServesRooms(t *testing.T) {
	t.Parallel()

	app := NewApp(t, WithSQLite())
	rec := app.Do(t, http.MethodGet, "/api/rooms", nil, app.SessionCookie(t, PreparerEmail))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
