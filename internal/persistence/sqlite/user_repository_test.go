package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/housekeeping/internal/persistence"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, persistence.User{
		Email:        " Test@Example.com ",
		PasswordHash: "hashed_password",
		Role:         "ROOM_PREPARER",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	retrieved, err := store.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if retrieved.Email != "test@example.com" {
		t.Errorf("expected normalized email, got %q", retrieved.Email)
	}

	byEmail, err := store.GetUserByEmail(ctx, "TEST@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.PasswordHash != "hashed_password" {
		t.Errorf("unexpected user: %#v", byEmail)
	}
}

func TestUserRepository_CreateUser_Duplicate(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	user := persistence.User{Email: "dup@example.com", PasswordHash: "h", Role: "ADMIN"}
	if _, err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := store.CreateUser(ctx, user); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_RejectsUnknownRole(t *testing.T) {
	store := setupStore(t)

	_, err := store.CreateUser(context.Background(), persistence.User{Email: "x@example.com", PasswordHash: "h", Role: "OWNER"})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, persistence.User{Email: "a@example.com", PasswordHash: "h1", Role: "ROOM_PREPARER"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user.Email = "b@example.com"
	user.PasswordHash = "h2"
	user.Role = "ADMIN"
	if err := store.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := store.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != "b@example.com" || got.PasswordHash != "h2" || got.Role != "ADMIN" {
		t.Fatalf("unexpected updated user: %#v", got)
	}

	if err := store.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := store.GetUser(ctx, user.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteUser(ctx, user.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
	if err := store.UpdateUser(ctx, user); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for update of missing user, got %v", err)
	}
}
