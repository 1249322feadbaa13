package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// RoomRepository captures the persistence operations needed by the service.
// DeleteRoom removes the room's log rows and the room in one transaction.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	GetRoomByNumber(ctx context.Context, roomNumber string) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	ListRooms(ctx context.Context) ([]Room, error)
}

// RoomService orchestrates authorization, validation, persistence and the
// activity log for rooms.
type RoomService struct {
	rooms  RoomRepository
	audit  auditRecorder
	now    func() time.Time
	logger *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomRepository, logs LogRepository, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, logs, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, logs LogRepository, now func() time.Time, logger *slog.Logger) *RoomService {
	if now == nil {
		now = time.Now
	}
	logger = defaultLogger(logger)
	return &RoomService{
		rooms:  rooms,
		audit:  auditRecorder{logs: logs, now: now, logger: logger},
		now:    now,
		logger: logger,
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// ListRooms returns every room ordered by room number descending.
func (s *RoomService) ListRooms(ctx context.Context, principal Principal) (rooms []Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if err = authorize(principal, ActionListRooms); err != nil {
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	rooms, err = s.rooms.ListRooms(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListRooms", "principal_id", principal.UserID).
			ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	if rooms == nil {
		rooms = []Room{}
	}
	return rooms, nil
}

// CreateRoom validates input and persists a new room for administrators.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom",
		"principal_id", params.Principal.UserID,
		"room_number", params.Input.RoomNumber,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	if err = authorize(params.Principal, ActionCreateRoom); err != nil {
		return
	}

	candidate, vErr := normalizeRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	if _, lookupErr := s.rooms.GetRoomByNumber(ctx, candidate.RoomNumber); lookupErr == nil {
		err = ErrConflict
		return
	} else if mapped := mapRepoError(lookupErr); !errors.Is(mapped, ErrNotFound) {
		err = mapped
		return
	}

	candidate.CreatedAt = s.now()
	candidate.UpdatedAt = candidate.CreatedAt

	room, err = s.rooms.CreateRoom(ctx, candidate)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	roomID := room.ID
	s.audit.record(ctx, params.Principal.UserID, &roomID, roomCreatedActivity(room))
	return
}

// UpdateRoom applies a partial update. A patch that changes nothing writes
// nothing and records no activity.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	changed := false
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("changed", changed).InfoContext(ctx, "room updated")
	}()

	patch := params.Patch
	actions := []Action{}
	if patch.Category != nil || patch.Status != nil {
		actions = append(actions, ActionUpdateRoomCategory)
	}
	if patch.RoomNumber != nil || patch.Type != nil || patch.Floor != nil {
		actions = append(actions, ActionUpdateRoomDetails)
	}
	if len(actions) == 0 {
		actions = append(actions, ActionUpdateRoomCategory)
	}
	if err = authorize(params.Principal, actions...); err != nil {
		return
	}

	if vErr := validateRoomPatch(patch); vErr.HasErrors() {
		err = vErr
		return
	}
	if patch.Status != nil && patch.Category == nil {
		logger.WarnContext(ctx, "deprecated status field used for room update")
	}

	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	var existing Room
	existing, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	updated := applyRoomPatch(existing, patch)
	changes := roomChanges(existing, updated)
	if changes.empty() {
		room = existing
		return
	}

	if updated.RoomNumber != existing.RoomNumber {
		other, lookupErr := s.rooms.GetRoomByNumber(ctx, updated.RoomNumber)
		if lookupErr == nil && other.ID != existing.ID {
			err = ErrConflict
			return
		}
		if lookupErr != nil {
			if mapped := mapRepoError(lookupErr); !errors.Is(mapped, ErrNotFound) {
				err = mapped
				return
			}
		}
	}

	updated.UpdatedAt = s.now()
	room, err = s.rooms.UpdateRoom(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	changed = true

	roomID := room.ID
	s.audit.record(ctx, params.Principal.UserID, &roomID, roomUpdatedActivity(existing, changes))
	return
}

// DeleteRoom records the deletion and then removes the room together with its
// log history, including the deletion entry just written.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID int64) (err error) {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteRoom",
		"principal_id", principal.UserID,
		"room_id", roomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room deleted")
	}()

	if err = authorize(principal, ActionDeleteRoom); err != nil {
		return
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	existing, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return mapRepoError(err)
	}

	id := existing.ID
	s.audit.record(ctx, principal.UserID, &id, roomDeletedActivity(existing))

	if err = s.rooms.DeleteRoom(ctx, existing.ID); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func normalizeRoomInput(input RoomInput) (Room, *ValidationError) {
	vErr := &ValidationError{}

	room := Room{
		RoomNumber: strings.TrimSpace(input.RoomNumber),
		Category:   input.Category,
		Type:       input.Type,
	}

	if room.RoomNumber == "" {
		vErr.add("roomNumber", "room number is required")
	}
	if room.Category == "" {
		room.Category = CategoryEmpty
	} else if !room.Category.Valid() {
		vErr.add("category", "category is invalid")
	}
	if room.Type == "" {
		room.Type = RoomTypeStandard
	} else if !room.Type.Valid() {
		vErr.add("type", "type is invalid")
	}

	switch {
	case input.Floor != nil && *input.Floor < 0:
		vErr.add("floor", "floor must not be negative")
	case input.Floor != nil:
		room.Floor = *input.Floor
	default:
		room.Floor = floorFromRoomNumber(room.RoomNumber)
	}

	return room, vErr
}

// floorFromRoomNumber derives the floor from numbers like "101" or "1204".
func floorFromRoomNumber(roomNumber string) int {
	if len(roomNumber) < 3 {
		return 1
	}
	floor, err := strconv.Atoi(roomNumber[:len(roomNumber)-2])
	if err != nil || floor < 0 {
		return 1
	}
	return floor
}

func validateRoomPatch(patch RoomPatch) *ValidationError {
	vErr := &ValidationError{}

	if patch.IsEmpty() {
		vErr.add("body", "at least one field must be provided")
		return vErr
	}
	if patch.RoomNumber != nil && strings.TrimSpace(*patch.RoomNumber) == "" {
		vErr.add("roomNumber", "room number must not be empty")
	}
	if patch.Category != nil && !patch.Category.Valid() {
		vErr.add("category", "category is invalid")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		vErr.add("status", "status is invalid")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		vErr.add("type", "type is invalid")
	}
	if patch.Floor != nil && *patch.Floor < 0 {
		vErr.add("floor", "floor must not be negative")
	}
	return vErr
}

func applyRoomPatch(room Room, patch RoomPatch) Room {
	if patch.RoomNumber != nil {
		room.RoomNumber = strings.TrimSpace(*patch.RoomNumber)
	}
	switch {
	case patch.Category != nil:
		room.Category = *patch.Category
	case patch.Status != nil:
		room.Category = *patch.Status
	}
	if patch.Type != nil {
		room.Type = *patch.Type
	}
	if patch.Floor != nil {
		room.Floor = *patch.Floor
	}
	return room
}
