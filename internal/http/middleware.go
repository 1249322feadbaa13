package http

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/housekeeping/internal/application"
	"github.com/example/housekeeping/internal/logging"
)

const (
	headerRequestID = "X-Request-Id"
	headerUserID    = "X-User-Id"
	headerUserRole  = "X-User-Role"
)

// SessionValidator verifies a raw session token.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// GateOptions configures RequireSession.
type GateOptions struct {
	LoginPath    string
	HomePath     string
	SecureCookie bool
}

func (o GateOptions) withDefaults() GateOptions {
	if o.LoginPath == "" {
		o.LoginPath = "/login"
	}
	if o.HomePath == "" {
		o.HomePath = "/"
	}
	return o
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// RequireSession is the single point that turns a session cookie into a
// Principal. It never writes to the store. Identity headers supplied by the
// client are always discarded; on success they are replaced with the verified
// values for downstream consumers.
func RequireSession(validator SessionValidator, opts GateOptions, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)
	opts = opts.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Del(headerUserID)
			r.Header.Del(headerUserRole)

			ctx := r.Context()
			api := isAPIPath(r.URL.Path)
			onLogin := r.URL.Path == opts.LoginPath
			token := sessionTokenFromRequest(r)

			if token == "" {
				switch {
				case api:
					responder.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{ErrorCode: codeUnauthenticated, Message: "Unauthenticated"})
				case onLogin:
					next.ServeHTTP(w, r)
				default:
					http.Redirect(w, r, opts.LoginPath, http.StatusFound)
				}
				return
			}

			if onLogin && !api {
				http.Redirect(w, r, opts.HomePath, http.StatusFound)
				return
			}

			if validator == nil {
				responder.writeError(ctx, w, http.StatusInternalServerError, nil)
				return
			}

			principal, err := validator.ValidateSession(ctx, token)
			if err != nil {
				kind := application.ErrorKind(err)
				handlerLogger(ctx, logger, "RequireSession", "", "path", r.URL.Path).
					InfoContext(ctx, "session rejected", "error", err, "error_kind", kind)

				if kind != "unauthenticated" {
					responder.handleServiceError(ctx, w, err)
					return
				}
				if api {
					responder.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{ErrorCode: codeUnauthenticated, Message: "Unauthenticated"})
					return
				}
				clearSessionCookie(w, opts.SecureCookie)
				http.Redirect(w, r, opts.LoginPath, http.StatusFound)
				return
			}

			r.Header.Set(headerUserID, strconv.FormatInt(principal.UserID, 10))
			r.Header.Set(headerUserRole, string(principal.Role))

			ctx = ContextWithPrincipal(ctx, principal)
			if l := logging.FromContext(ctx); l != nil {
				ctx = logging.ContextWithLogger(ctx, l.With("principal_id", principal.UserID, "role", string(principal.Role)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID reuses an incoming X-Request-Id or assigns a new uuid.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// RequestLogger attaches a request scoped logger to the context and logs the
// outcome of every request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r.WithContext(ctx))

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.InfoContext(ctx, "request completed",
				"status", status,
				"bytes", sw.bytes,
				"duration", time.Since(start),
			)
		})
	}
}

// Recoverer turns a handler panic into a 500 JSON response.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					responder.loggerFor(r.Context()).ErrorContext(r.Context(), "panic recovered",
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
						ErrorCode: codeInternal,
						Message:   "Internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
