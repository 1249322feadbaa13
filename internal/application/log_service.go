package application

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	defaultLogPageSize = 10
	maxLogPageSize     = 100
)

// LogService exposes the activity log to administrators.
type LogService struct {
	logs   LogRepository
	logger *slog.Logger
}

// NewLogService constructs a log service.
func NewLogService(logs LogRepository) *LogService {
	return NewLogServiceWithLogger(logs, nil)
}

// NewLogServiceWithLogger constructs a log service with a specified logger.
func NewLogServiceWithLogger(logs LogRepository, logger *slog.Logger) *LogService {
	return &LogService{logs: logs, logger: defaultLogger(logger)}
}

// ListLogs returns entries newest first. Without pagination every entry is returned.
func (s *LogService) ListLogs(ctx context.Context, params ListLogsParams) (page LogPage, err error) {
	if s == nil {
		err = fmt.Errorf("LogService is nil")
		return
	}
	if err = authorize(params.Principal, ActionListLogs); err != nil {
		return
	}
	if s.logs == nil {
		err = fmt.Errorf("log repository not configured")
		return
	}

	query := LogQuery{}
	if params.Paginate {
		vErr := &ValidationError{}
		if params.Page == 0 {
			params.Page = 1
		}
		if params.Limit == 0 {
			params.Limit = defaultLogPageSize
		}
		if params.Page < 0 {
			vErr.add("page", "page must be positive")
		}
		if params.Limit < 0 {
			vErr.add("limit", "limit must be positive")
		}
		if vErr.HasErrors() {
			err = vErr
			return
		}
		params.Limit = min(params.Limit, maxLogPageSize)
		query = LogQuery{Limit: params.Limit, Offset: (params.Page - 1) * params.Limit}
	}

	entries, total, err := s.logs.ListLogs(ctx, query)
	if err != nil {
		s.loggerWith(ctx, "ListLogs", "principal_id", params.Principal.UserID).
			ErrorContext(ctx, "failed to list logs", "error", err, "error_kind", ErrorKind(err))
		return LogPage{}, err
	}
	if entries == nil {
		entries = []LogEntry{}
	}

	return LogPage{Entries: entries, TotalCount: total, Page: params.Page, Limit: params.Limit}, nil
}

func (s *LogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LogService", operation, attrs...)
}
