package application

import (
	"context"
	"log/slog"
	"time"
)

// LogRepository captures the activity log operations used by the services.
type LogRepository interface {
	AppendLog(ctx context.Context, entry LogEntry) (LogEntry, error)
	ListLogs(ctx context.Context, query LogQuery) ([]LogEntry, int, error)
}

// auditRecorder appends activity entries on a best-effort basis. A failed
// append is reported on the operational logger and never returned.
type auditRecorder struct {
	logs   LogRepository
	now    func() time.Time
	logger *slog.Logger
}

func (a auditRecorder) record(ctx context.Context, actorID int64, roomID *int64, activity string) {
	if activity == "" || a.logs == nil {
		return
	}

	entry := LogEntry{
		Activity:    activity,
		ActorUserID: actorID,
		RoomID:      roomID,
		CreatedAt:   a.now(),
	}
	if _, err := a.logs.AppendLog(ctx, entry); err != nil {
		serviceLogger(ctx, a.logger, "AuditLog", "AppendLog",
			"actor_id", actorID,
			"activity", activity,
		).WarnContext(ctx, "failed to append activity log", "error", err, "error_kind", ErrorKind(err))
	}
}
