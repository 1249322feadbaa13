package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/housekeeping/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	now    func() time.Time
}

// NewRoomRepository creates a new SQLite room repository
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		now:    time.Now,
	}
}

const roomColumns = `id, room_number, category, type, floor, created_at, updated_at`

// CreateRoom inserts a new room and returns it with the assigned ID.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	if room.RoomNumber == "" {
		return persistence.Room{}, persistence.ErrConstraintViolation
	}

	now := r.now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	result, err := r.helper.Exec(ctx, `
		INSERT INTO rooms (room_number, category, type, floor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		room.RoomNumber,
		room.Category,
		room.Type,
		room.Floor,
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Room{}, fmt.Errorf("failed to get inserted room id: %w", err)
	}
	room.ID = id
	return room, nil
}

// UpdateRoom updates an existing room in the database
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.RoomNumber == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE rooms
		SET room_number = ?, category = ?, type = ?, floor = ?, updated_at = ?
		WHERE id = ?
	`,
		room.RoomNumber,
		room.Category,
		room.Type,
		room.Floor,
		formatTime(r.now()),
		room.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetRoom retrieves a room by ID from the database
func (r *RoomRepository) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	return r.scanRoom(row)
}

// GetRoomByNumber retrieves a room by its unique room number.
func (r *RoomRepository) GetRoomByNumber(ctx context.Context, roomNumber string) (persistence.Room, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE room_number = ?`, roomNumber)
	return r.scanRoom(row)
}

// ListRooms returns all rooms ordered by room number descending
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY room_number DESC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	rooms := []persistence.Room{}
	for rows.Next() {
		room, err := r.scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes the room's log history and then the room in one transaction.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(ctx, tx, `DELETE FROM logs WHERE room_id = ?`, id); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(ctx, tx, `DELETE FROM rooms WHERE id = ?`, id)
		if err != nil {
			return r.mapper.MapError(err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func (r *RoomRepository) scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room                     persistence.Room
		createdAtStr, updatedStr string
	)
	err := row.Scan(&room.ID, &room.RoomNumber, &room.Category, &room.Type, &room.Floor, &createdAtStr, &updatedStr)
	if err != nil {
		mapped := r.mapper.MapError(err)
		if errors.Is(mapped, persistence.ErrNotFound) {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, mapped
	}

	if room.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return room, nil
}
