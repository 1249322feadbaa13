package wiring

import (
	"context"
	"errors"
	"testing"

	"github.com/example/housekeeping/internal/application"
	"github.com/example/housekeeping/internal/persistence"
	"github.com/example/housekeeping/internal/persistence/memory"
)

func TestRoomRepositoryAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newRoomRepositoryAdapter(memory.Open())

	created, err := adapter.CreateRoom(ctx, application.Room{
		RoomNumber: "305",
		Category:   application.CategoryEmpty,
		Type:       application.RoomTypeDeluxe,
		Floor:      3,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if created.ID == 0 || created.Type != application.RoomTypeDeluxe {
		t.Fatalf("unexpected room: %+v", created)
	}

	created.Category = application.CategoryOccupied
	updated, err := adapter.UpdateRoom(ctx, created)
	if err != nil {
		t.Fatalf("UpdateRoom: %v", err)
	}
	if updated.Category != application.CategoryOccupied || updated.RoomNumber != "305" {
		t.Fatalf("update not reflected: %+v", updated)
	}

	_, err = adapter.CreateRoom(ctx, application.Room{RoomNumber: "305", Category: application.CategoryEmpty, Type: application.RoomTypeStandard, Floor: 3})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepositoryAdapterKeepsHashAndRole(t *testing.T) {
	ctx := context.Background()
	adapter := newUserRepositoryAdapter(memory.Open())

	created, err := adapter.CreateUser(ctx, application.User{
		Email:        "staff@example.com",
		PasswordHash: "hash",
		Role:         application.RoleRoomPreparer,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byEmail, err := adapter.GetUserByEmail(ctx, "staff@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.PasswordHash != "hash" || byEmail.Role != application.RoleRoomPreparer {
		t.Fatalf("unexpected user: %+v", byEmail)
	}

	if err := adapter.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := adapter.GetUser(ctx, created.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
