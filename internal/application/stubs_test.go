package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/housekeeping/internal/persistence"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func fixedNow() time.Time {
	return time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
}

// storeStub is an in-memory implementation of the service repositories.
type storeStub struct {
	users  map[int64]User
	rooms  map[int64]Room
	logs   []LogEntry
	nextID int64

	appendErr error
	deleteErr error

	userWrites int
	roomWrites int
	deleted    []int64
}

func newStoreStub() *storeStub {
	return &storeStub{users: map[int64]User{}, rooms: map[int64]Room{}}
}

func (s *storeStub) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *storeStub) addUser(email string, role Role, password string) User {
	hash, _ := CreatePasswordHash(password, testArgon2Params)
	u := User{ID: s.id(), Email: email, PasswordHash: hash, Role: role}
	s.users[u.ID] = u
	return u
}

func (s *storeStub) addRoom(number string, category Category) Room {
	r := Room{ID: s.id(), RoomNumber: number, Category: category, Type: RoomTypeStandard, Floor: 1}
	s.rooms[r.ID] = r
	return r
}

func (s *storeStub) CreateUser(_ context.Context, user User) (User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return User{}, persistence.ErrDuplicate
		}
	}
	user.ID = s.id()
	s.users[user.ID] = user
	s.userWrites++
	return user, nil
}

func (s *storeStub) GetUser(_ context.Context, id int64) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, persistence.ErrNotFound
	}
	return u, nil
}

func (s *storeStub) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, persistence.ErrNotFound
}

func (s *storeStub) UpdateUser(_ context.Context, user User) (User, error) {
	if _, ok := s.users[user.ID]; !ok {
		return User{}, persistence.ErrNotFound
	}
	s.users[user.ID] = user
	s.userWrites++
	return user, nil
}

func (s *storeStub) DeleteUser(_ context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.users[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *storeStub) ListUsers(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *storeStub) CreateRoom(_ context.Context, room Room) (Room, error) {
	for _, r := range s.rooms {
		if r.RoomNumber == room.RoomNumber {
			return Room{}, persistence.ErrDuplicate
		}
	}
	room.ID = s.id()
	s.rooms[room.ID] = room
	s.roomWrites++
	return room, nil
}

func (s *storeStub) GetRoom(_ context.Context, id int64) (Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return Room{}, persistence.ErrNotFound
	}
	return r, nil
}

func (s *storeStub) GetRoomByNumber(_ context.Context, number string) (Room, error) {
	for _, r := range s.rooms {
		if r.RoomNumber == number {
			return r, nil
		}
	}
	return Room{}, persistence.ErrNotFound
}

func (s *storeStub) UpdateRoom(_ context.Context, room Room) (Room, error) {
	if _, ok := s.rooms[room.ID]; !ok {
		return Room{}, persistence.ErrNotFound
	}
	s.rooms[room.ID] = room
	s.roomWrites++
	return room, nil
}

func (s *storeStub) DeleteRoom(_ context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	kept := s.logs[:0]
	for _, entry := range s.logs {
		if entry.RoomID == nil || *entry.RoomID != id {
			kept = append(kept, entry)
		}
	}
	s.logs = kept
	delete(s.rooms, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *storeStub) ListRooms(_ context.Context) ([]Room, error) {
	out := make([]Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber > out[j].RoomNumber })
	return out, nil
}

func (s *storeStub) AppendLog(_ context.Context, entry LogEntry) (LogEntry, error) {
	if s.appendErr != nil {
		return LogEntry{}, s.appendErr
	}
	entry.ID = s.id()
	s.logs = append(s.logs, entry)
	return entry, nil
}

func (s *storeStub) ListLogs(_ context.Context, query LogQuery) ([]LogEntry, int, error) {
	out := make([]LogEntry, 0, len(s.logs))
	for i := len(s.logs) - 1; i >= 0; i-- {
		out = append(out, s.logs[i])
	}
	total := len(out)
	if query.Offset > 0 {
		if query.Offset >= len(out) {
			return []LogEntry{}, total, nil
		}
		out = out[query.Offset:]
	}
	if query.Limit > 0 && query.Limit < len(out) {
		out = out[:query.Limit]
	}
	return out, total, nil
}

var errStoreDown = errors.New("store unavailable")

// testArgon2Params keeps hashing cheap in tests.
var testArgon2Params = Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func cheapHash(password string) (string, error) {
	return CreatePasswordHash(password, testArgon2Params)
}

func admin(id int64) Principal    { return Principal{UserID: id, Role: RoleAdmin} }
func preparer(id int64) Principal { return Principal{UserID: id, Role: RoleRoomPreparer} }

func ptr[T any](v T) *T { return &v }
