package persistence

import "time"

// User represents a staff account able to sign in to the dashboard.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a hotel room tracked by housekeeping.
type Room struct {
	ID         int64
	RoomNumber string
	Category   string
	Type       string
	Floor      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LogEntry is one append-only activity record.
//
// ActorEmail and RoomNumber are populated by list queries only; they are
// resolved at read time and are empty when the actor or room no longer exists.
type LogEntry struct {
	ID          int64
	Activity    string
	ActorUserID int64
	RoomID      *int64
	CreatedAt   time.Time

	ActorEmail string
	RoomNumber string
}

// LogFilter narrows log queries. A zero Limit returns every entry.
type LogFilter struct {
	Limit  int
	Offset int
}
