package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/housekeeping/internal/application"
)

type logService interface {
	ListLogs(ctx context.Context, params application.ListLogsParams) (application.LogPage, error)
}

type LogHandler struct {
	service   logService
	responder responder
	logger    *slog.Logger
}

func NewLogHandler(service logService, logger *slog.Logger) *LogHandler {
	base := defaultLogger(logger)
	return &LogHandler{service: service, responder: newResponder(base), logger: base}
}

// List returns the activity log. `page` or `limit` switches to the paginated shape.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	params := application.ListLogsParams{Principal: principal}

	query := r.URL.Query()
	vErr := &application.ValidationError{FieldErrors: map[string]string{}}
	for _, key := range []string{"page", "limit"} {
		raw := strings.TrimSpace(query.Get(key))
		if !query.Has(key) {
			continue
		}
		params.Paginate = true
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			vErr.FieldErrors[key] = key + " must be an integer"
			continue
		}
		if key == "page" {
			params.Page = n
		} else {
			params.Limit = n
		}
	}
	if vErr.HasErrors() {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	page, err := h.service.ListLogs(r.Context(), params)
	if err != nil {
		handlerLogger(r.Context(), h.logger, "LogHandler", "List", "principal_id", principal.UserID).
			WarnContext(r.Context(), "log list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	entries := make([]logDTO, 0, len(page.Entries))
	for _, entry := range page.Entries {
		entries = append(entries, toLogDTO(entry))
	}

	if !params.Paginate {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, entries)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, logPageResponse{Logs: entries, TotalCount: page.TotalCount})
}

type logPageResponse struct {
	Logs       []logDTO `json:"logs"`
	TotalCount int      `json:"totalCount"`
}

type logUserDTO struct {
	Email string `json:"email"`
}

type logRoomDTO struct {
	RoomNumber string `json:"roomNumber"`
}

type logDTO struct {
	ID        int64       `json:"id"`
	Activity  string      `json:"activity"`
	CreatedAt string      `json:"createdAt"`
	UserID    int64       `json:"userId"`
	RoomID    *int64      `json:"roomId"`
	User      *logUserDTO `json:"user"`
	Room      *logRoomDTO `json:"room"`
}

func toLogDTO(entry application.LogEntry) logDTO {
	dto := logDTO{
		ID:        entry.ID,
		Activity:  entry.Activity,
		CreatedAt: formatTimestamp(entry.CreatedAt),
		UserID:    entry.ActorUserID,
		RoomID:    entry.RoomID,
	}
	if entry.ActorEmail != "" {
		dto.User = &logUserDTO{Email: entry.ActorEmail}
	}
	if entry.RoomNumber != "" {
		dto.Room = &logRoomDTO{RoomNumber: entry.RoomNumber}
	}
	return dto
}
