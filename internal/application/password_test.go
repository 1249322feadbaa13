package application

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	t.Run("argon2id round trip", func(t *testing.T) {
		t.Parallel()

		hash, err := CreatePasswordHash("correct horse", testArgon2Params)
		if err != nil {
			t.Fatalf("CreatePasswordHash failed: %v", err)
		}
		if err := VerifyPassword(hash, "correct horse"); err != nil {
			t.Fatalf("expected match, got %v", err)
		}
		if err := VerifyPassword(hash, "battery staple"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("accepts imported bcrypt hashes", func(t *testing.T) {
		t.Parallel()

		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt failed: %v", err)
		}
		if err := VerifyPassword(string(hash), "admin123"); err != nil {
			t.Fatalf("expected bcrypt match, got %v", err)
		}
		if err := VerifyPassword(string(hash), "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects malformed hashes", func(t *testing.T) {
		t.Parallel()

		for _, hash := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$a$b", "$2a$broken"} {
			if err := VerifyPassword(hash, "x"); err == nil {
				t.Fatalf("expected error for %q", hash)
			}
		}
	})
}

func TestActivityStrings(t *testing.T) {
	t.Parallel()

	before := Room{RoomNumber: "101", Category: CategoryEmpty, Type: RoomTypeStandard, Floor: 1}
	after := before
	after.Type = RoomTypeDeluxe
	after.RoomNumber = "111"

	if got, want := roomUpdatedActivity(before, roomChanges(before, after)), "Room 101: room number changed from 101 to 111, type changed from STANDARD to DELUXE"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !roomChanges(before, before).empty() {
		t.Fatalf("expected no changes for identical rooms")
	}
	if got := roomDeletedActivity(before); got != "Room 101 deleted" {
		t.Fatalf("unexpected delete activity %q", got)
	}
	if got := userCreatedActivity(User{Email: "a@b.c", Role: RoleRoomPreparer}); got != "Added user a@b.c with role ROOM_PREPARER" {
		t.Fatalf("unexpected create activity %q", got)
	}
}
