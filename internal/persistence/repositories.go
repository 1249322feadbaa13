package persistence

import "context"

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	GetRoomByNumber(ctx context.Context, roomNumber string) (Room, error)
	// ListRooms returns rooms ordered by room number, highest first.
	ListRooms(ctx context.Context) ([]Room, error)
	// DeleteRoom removes the room's log entries and then the room in one unit.
	DeleteRoom(ctx context.Context, id int64) error
}

// LogRepository stores the append-only activity log.
type LogRepository interface {
	AppendLog(ctx context.Context, entry LogEntry) (LogEntry, error)
	// ListLogs returns entries newest first along with the unpaginated total.
	ListLogs(ctx context.Context, filter LogFilter) ([]LogEntry, int, error)
}

// Store bundles every repository behind a single backend.
type Store interface {
	UserRepository
	RoomRepository
	LogRepository
	Ping(ctx context.Context) error
	Close() error
}
