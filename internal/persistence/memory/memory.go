// Package memory provides a process-local persistence.Store used for development
// and tests. Data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/housekeeping/internal/persistence"
)

// Storage is a mutex guarded in-memory implementation of persistence.Store.
type Storage struct {
	mu     sync.RWMutex
	now    func() time.Time
	users  map[int64]persistence.User
	rooms  map[int64]persistence.Room
	logs   []persistence.LogEntry
	nextID struct{ user, room, log int64 }
}

var _ persistence.Store = (*Storage)(nil)

// Open returns an empty Storage.
func Open() *Storage {
	return OpenWithClock(nil)
}

// OpenWithClock returns an empty Storage stamping records with now.
func OpenWithClock(now func() time.Time) *Storage {
	if now == nil {
		now = time.Now
	}
	return &Storage{
		now:   now,
		users: make(map[int64]persistence.User),
		rooms: make(map[int64]persistence.Room),
	}
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error { return nil }

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error { return nil }

// --- UserRepository implementation ---

// CreateUser stores a new user and assigns its ID.
func (s *Storage) CreateUser(ctx context.Context, user persistence.User) (persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureUniqueEmailLocked(0, user.Email); err != nil {
		return persistence.User{}, err
	}

	s.nextID.user++
	user.ID = s.nextID.user
	now := s.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

// UpdateUser replaces an existing user.
func (s *Storage) UpdateUser(ctx context.Context, user persistence.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	if err := s.ensureUniqueEmailLocked(user.ID, user.Email); err != nil {
		return err
	}

	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = s.now().UTC()
	s.users[user.ID] = user
	return nil
}

// GetUser retrieves a user by ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address, ignoring case.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

// ListUsers returns all users ordered by ID.
func (s *Storage) ListUsers(ctx context.Context) ([]persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// DeleteUser removes a user by ID. Log entries written by the user are kept.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Storage) ensureUniqueEmailLocked(id int64, email string) error {
	for existingID, user := range s.users {
		if existingID != id && strings.EqualFold(user.Email, email) {
			return persistence.ErrDuplicate
		}
	}
	return nil
}

// --- RoomRepository implementation ---

// CreateRoom stores a new room and assigns its ID.
func (s *Storage) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureUniqueRoomNumberLocked(0, room.RoomNumber); err != nil {
		return persistence.Room{}, err
	}

	s.nextID.room++
	room.ID = s.nextID.room
	now := s.now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	s.rooms[room.ID] = room
	return room, nil
}

// UpdateRoom replaces an existing room.
func (s *Storage) UpdateRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rooms[room.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	if err := s.ensureUniqueRoomNumberLocked(room.ID, room.RoomNumber); err != nil {
		return err
	}

	room.CreatedAt = current.CreatedAt
	room.UpdatedAt = s.now().UTC()
	s.rooms[room.ID] = room
	return nil
}

// GetRoom retrieves a room by ID.
func (s *Storage) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

// GetRoomByNumber retrieves a room by its unique room number.
func (s *Storage) GetRoomByNumber(ctx context.Context, roomNumber string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		if room.RoomNumber == roomNumber {
			return room, nil
		}
	}
	return persistence.Room{}, persistence.ErrNotFound
}

// ListRooms returns all rooms ordered by room number descending.
func (s *Storage) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber > rooms[j].RoomNumber })
	return rooms, nil
}

// DeleteRoom removes the room's log entries and then the room.
func (s *Storage) DeleteRoom(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}

	kept := s.logs[:0]
	for _, entry := range s.logs {
		if entry.RoomID != nil && *entry.RoomID == id {
			continue
		}
		kept = append(kept, entry)
	}
	s.logs = kept

	delete(s.rooms, id)
	return nil
}

func (s *Storage) ensureUniqueRoomNumberLocked(id int64, roomNumber string) error {
	for existingID, room := range s.rooms {
		if existingID != id && room.RoomNumber == roomNumber {
			return persistence.ErrDuplicate
		}
	}
	return nil
}

// --- LogRepository implementation ---

// AppendLog stores a log entry. Entries referencing a missing room are rejected.
func (s *Storage) AppendLog(ctx context.Context, entry persistence.LogEntry) (persistence.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.RoomID != nil {
		if _, ok := s.rooms[*entry.RoomID]; !ok {
			return persistence.LogEntry{}, persistence.ErrConstraintViolation
		}
	}

	s.nextID.log++
	entry.ID = s.nextID.log
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	entry.ActorEmail = ""
	entry.RoomNumber = ""
	if entry.RoomID != nil {
		roomID := *entry.RoomID
		entry.RoomID = &roomID
	}
	s.logs = append(s.logs, entry)
	return entry, nil
}

// ListLogs returns entries newest first with actor email and room number resolved.
func (s *Storage) ListLogs(ctx context.Context, filter persistence.LogFilter) ([]persistence.LogEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.logs)
	entries := make([]persistence.LogEntry, 0, total)
	for i := total - 1; i >= 0; i-- {
		entry := s.logs[i]
		if user, ok := s.users[entry.ActorUserID]; ok {
			entry.ActorEmail = user.Email
		}
		if entry.RoomID != nil {
			if room, ok := s.rooms[*entry.RoomID]; ok {
				entry.RoomNumber = room.RoomNumber
			}
		}
		entries = append(entries, entry)
	}

	// Entries were collected newest insert first; the stable sort keeps that order for equal timestamps.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(entries) {
			return []persistence.LogEntry{}, total, nil
		}
		entries = entries[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(entries) {
		entries = entries[:filter.Limit]
	}
	return entries, total, nil
}
