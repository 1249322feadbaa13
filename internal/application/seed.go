package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SeedUser is an account created when seeding an empty installation.
type SeedUser struct {
	Email    string
	Password string
	Role     Role
}

// DefaultSeedUsers are the demo accounts.
var DefaultSeedUsers = []SeedUser{
	{Email: "admin@example.com", Password: "admin123", Role: RoleAdmin},
	{Email: "roompreparer@example.com", Password: "preparer123", Role: RoleRoomPreparer},
}

// DefaultSeedRooms are the demo rooms on floors 1 and 2.
var DefaultSeedRooms = []Room{
	{RoomNumber: "101", Category: CategoryEmpty, Type: RoomTypeStandard, Floor: 1},
	{RoomNumber: "102", Category: CategoryOccupied, Type: RoomTypeDeluxe, Floor: 1},
	{RoomNumber: "103", Category: CategoryEmpty, Type: RoomTypeSuperior, Floor: 1},
	{RoomNumber: "104", Category: CategoryBeingCleaned, Type: RoomTypeStandard, Floor: 1},
	{RoomNumber: "105", Category: CategoryEmpty, Type: RoomTypeExecutive, Floor: 1},
	{RoomNumber: "106", Category: CategoryOccupied, Type: RoomTypeFamily, Floor: 1},
	{RoomNumber: "107", Category: CategoryEmpty, Type: RoomTypeStandard, Floor: 1},
	{RoomNumber: "108", Category: CategoryBeingCleaned, Type: RoomTypeDeluxe, Floor: 1},
	{RoomNumber: "109", Category: CategoryEmpty, Type: RoomTypeSuperior, Floor: 1},
	{RoomNumber: "110", Category: CategoryOccupied, Type: RoomTypeStandard, Floor: 1},
	{RoomNumber: "201", Category: CategoryEmpty, Type: RoomTypeExecutive, Floor: 2},
	{RoomNumber: "202", Category: CategoryOccupied, Type: RoomTypeFamily, Floor: 2},
	{RoomNumber: "203", Category: CategoryEmpty, Type: RoomTypeStandard, Floor: 2},
	{RoomNumber: "204", Category: CategoryBeingCleaned, Type: RoomTypeDeluxe, Floor: 2},
	{RoomNumber: "205", Category: CategoryEmpty, Type: RoomTypeSuperior, Floor: 2},
	{RoomNumber: "206", Category: CategoryOccupied, Type: RoomTypeStandard, Floor: 2},
	{RoomNumber: "207", Category: CategoryEmpty, Type: RoomTypeExecutive, Floor: 2},
	{RoomNumber: "208", Category: CategoryBeingCleaned, Type: RoomTypeFamily, Floor: 2},
	{RoomNumber: "209", Category: CategoryEmpty, Type: RoomTypeStandard, Floor: 2},
	{RoomNumber: "210", Category: CategoryOccupied, Type: RoomTypeDeluxe, Floor: 2},
}

// SeedResult counts the records inserted by Seed.
type SeedResult struct {
	UsersCreated int
	RoomsCreated int
}

// Seeder inserts demo data. Existing emails and room numbers are skipped so
// running it twice is harmless. Seeding writes no activity log entries.
type Seeder struct {
	users  UserRepository
	rooms  RoomRepository
	hash   PasswordHasher
	now    func() time.Time
	logger *slog.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(users UserRepository, rooms RoomRepository, hash PasswordHasher, now func() time.Time, logger *slog.Logger) *Seeder {
	if hash == nil {
		hash = HashPassword
	}
	if now == nil {
		now = time.Now
	}
	return &Seeder{users: users, rooms: rooms, hash: hash, now: now, logger: defaultLogger(logger)}
}

// Seed inserts the given users and rooms when missing.
func (s *Seeder) Seed(ctx context.Context, users []SeedUser, rooms []Room) (result SeedResult, err error) {
	logger := serviceLogger(ctx, s.logger, "Seeder", "Seed")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "seeding failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "seeding finished",
			"users_created", result.UsersCreated,
			"rooms_created", result.RoomsCreated,
		)
	}()

	for _, seed := range users {
		email := normalizeEmail(seed.Email)
		_, lookupErr := s.users.GetUserByEmail(ctx, email)
		if lookupErr == nil {
			continue
		}
		if !errors.Is(mapRepoError(lookupErr), ErrNotFound) {
			return result, lookupErr
		}

		hash, hashErr := s.hash(seed.Password)
		if hashErr != nil {
			return result, fmt.Errorf("hash password for %s: %w", email, hashErr)
		}
		now := s.now()
		if _, err = s.users.CreateUser(ctx, User{Email: email, PasswordHash: hash, Role: seed.Role, CreatedAt: now, UpdatedAt: now}); err != nil {
			return result, fmt.Errorf("seed user %s: %w", email, err)
		}
		result.UsersCreated++
	}

	for _, room := range rooms {
		_, lookupErr := s.rooms.GetRoomByNumber(ctx, room.RoomNumber)
		if lookupErr == nil {
			continue
		}
		if !errors.Is(mapRepoError(lookupErr), ErrNotFound) {
			return result, lookupErr
		}

		room.CreatedAt = s.now()
		room.UpdatedAt = room.CreatedAt
		if _, err = s.rooms.CreateRoom(ctx, room); err != nil {
			return result, fmt.Errorf("seed room %s: %w", room.RoomNumber, err)
		}
		result.RoomsCreated++
	}

	return result, nil
}
