package application

import "time"

// Role identifies the permission set granted to a user.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleRoomPreparer Role = "ROOM_PREPARER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRoomPreparer
}

// Category is the housekeeping state of a room.
type Category string

const (
	CategoryEmpty        Category = "EMPTY"
	CategoryOccupied     Category = "OCCUPIED"
	CategoryBeingCleaned Category = "BEING_CLEANED"
	CategoryUnderRepair  Category = "UNDER_REPAIR"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryEmpty, CategoryOccupied, CategoryBeingCleaned, CategoryUnderRepair:
		return true
	}
	return false
}

// RoomType is the room class sold to guests.
type RoomType string

const (
	RoomTypeFamily    RoomType = "FAMILY"
	RoomTypeExecutive RoomType = "EXECUTIVE"
	RoomTypeDeluxe    RoomType = "DELUXE"
	RoomTypeSuperior  RoomType = "SUPERIOR"
	RoomTypeStandard  RoomType = "STANDARD"
)

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeFamily, RoomTypeExecutive, RoomTypeDeluxe, RoomTypeSuperior, RoomTypeStandard:
		return true
	}
	return false
}

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID int64
	Role   Role
}

// User is a staff account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room is a hotel room tracked by housekeeping.
type Room struct {
	ID         int64
	RoomNumber string
	Category   Category
	Type       RoomType
	Floor      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LogEntry is one line of the activity log.
type LogEntry struct {
	ID          int64
	Activity    string
	ActorUserID int64
	RoomID      *int64
	CreatedAt   time.Time

	// Resolved on read; empty when the actor or room no longer exists.
	ActorEmail string
	RoomNumber string
}

// LogQuery bounds a log listing. A zero Limit returns every entry.
type LogQuery struct {
	Limit  int
	Offset int
}

// AuthenticateParams carries login credentials.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult is returned by a successful login.
type AuthenticateResult struct {
	User  User
	Token SessionToken
}

// SessionToken is a minted session token as handed to the client.
type SessionToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// RoomInput captures fields supplied when creating a room. Zero values pick defaults.
type RoomInput struct {
	RoomNumber string
	Category   Category
	Type       RoomType
	Floor      *int
}

// RoomPatch captures a partial room update. Status is the deprecated alias of Category.
type RoomPatch struct {
	RoomNumber *string
	Category   *Category
	Type       *RoomType
	Floor      *int
	Status     *Category
}

// IsEmpty reports whether no field was supplied.
func (p RoomPatch) IsEmpty() bool {
	return p.RoomNumber == nil && p.Category == nil && p.Type == nil && p.Floor == nil && p.Status == nil
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    int64
	Patch     RoomPatch
}

// UserInput captures fields supplied when creating a user.
type UserInput struct {
	Email    string
	Password string
	Role     Role
}

// UserPatch captures a partial user update.
type UserPatch struct {
	Email    *string
	Password *string
	Role     *Role
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    int64
	Patch     UserPatch
}

// ListLogsParams selects a page of the activity log. Paginate false returns everything.
type ListLogsParams struct {
	Principal Principal
	Paginate  bool
	Page      int
	Limit     int
}

// LogPage is a slice of the activity log plus the total number of entries.
type LogPage struct {
	Entries    []LogEntry
	TotalCount int
	Page       int
	Limit      int
}
