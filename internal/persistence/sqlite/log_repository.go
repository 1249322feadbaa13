package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/housekeeping/internal/persistence"
)

// LogRepository implements persistence.LogRepository using SQLite.
type LogRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
	now    func() time.Time
}

// NewLogRepository creates a new SQLite log repository
func NewLogRepository(pool *ConnectionPool) *LogRepository {
	return &LogRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
		now:    time.Now,
	}
}

// AppendLog inserts a log entry, retrying while the database is busy.
func (r *LogRepository) AppendLog(ctx context.Context, entry persistence.LogEntry) (persistence.LogEntry, error) {
	if entry.Activity == "" {
		return persistence.LogEntry{}, persistence.ErrConstraintViolation
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	var roomID sql.NullInt64
	if entry.RoomID != nil {
		roomID = sql.NullInt64{Int64: *entry.RoomID, Valid: true}
	}

	var result sql.Result
	err := r.retry.WithRetry(ctx, func() error {
		var execErr error
		result, execErr = r.helper.Exec(ctx, `
			INSERT INTO logs (activity, created_at, actor_user_id, room_id)
			VALUES (?, ?, ?, ?)
		`,
			entry.Activity,
			formatTime(entry.CreatedAt),
			entry.ActorUserID,
			roomID,
		)
		return execErr
	})
	if err != nil {
		return persistence.LogEntry{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.LogEntry{}, fmt.Errorf("failed to get inserted log id: %w", err)
	}
	entry.ID = id
	entry.ActorEmail = ""
	entry.RoomNumber = ""
	return entry, nil
}

// ListLogs returns entries newest first with the actor email and room number joined in.
func (r *LogRepository) ListLogs(ctx context.Context, filter persistence.LogFilter) ([]persistence.LogEntry, int, error) {
	var total int
	if err := r.helper.QueryRow(ctx, `SELECT COUNT(*) FROM logs`).Scan(&total); err != nil {
		return nil, 0, r.mapper.MapError(err)
	}

	query := `
		SELECT l.id, l.activity, l.created_at, l.actor_user_id, l.room_id,
			COALESCE(u.email, ''), COALESCE(rm.room_number, '')
		FROM logs l
		LEFT JOIN users u ON u.id = l.actor_user_id
		LEFT JOIN rooms rm ON rm.id = l.room_id
		ORDER BY l.created_at DESC, l.id DESC
	`
	args := []any{}
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, max(filter.Offset, 0))
	} else if filter.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, r.mapper.MapError(err)
	}
	defer rows.Close()

	entries := []persistence.LogEntry{}
	for rows.Next() {
		var (
			entry        persistence.LogEntry
			createdAtStr string
			roomID       sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.Activity, &createdAtStr, &entry.ActorUserID, &roomID, &entry.ActorEmail, &entry.RoomNumber); err != nil {
			return nil, 0, r.mapper.MapError(err)
		}
		if entry.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, 0, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if roomID.Valid {
			id := roomID.Int64
			entry.RoomID = &id
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.mapper.MapError(err)
	}

	return entries, total, nil
}
