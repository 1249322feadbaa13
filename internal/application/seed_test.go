package application

import (
	"context"
	"testing"
)

func TestSeeder_Seed(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	seeder := NewSeeder(store, store, cheapHash, fixedNow, discardLogger)
	ctx := context.Background()

	result, err := seeder.Seed(ctx, DefaultSeedUsers, DefaultSeedRooms)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if result.UsersCreated != 2 || result.RoomsCreated != 20 {
		t.Fatalf("unexpected result %#v", result)
	}

	adminUser, err := store.GetUserByEmail(ctx, "admin@example.com")
	if err != nil || adminUser.Role != RoleAdmin {
		t.Fatalf("expected seeded admin, got %#v, %v", adminUser, err)
	}
	if err := VerifyPassword(adminUser.PasswordHash, "admin123"); err != nil {
		t.Fatalf("expected seeded password to verify: %v", err)
	}

	again, err := seeder.Seed(ctx, DefaultSeedUsers, DefaultSeedRooms)
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if again != (SeedResult{}) {
		t.Fatalf("expected second run to insert nothing, got %#v", again)
	}
	if len(store.logs) != 0 {
		t.Fatalf("seeding must not write activity, got %d entries", len(store.logs))
	}
}
