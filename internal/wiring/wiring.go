// Package wiring assembles the application services and the HTTP router on
// top of a persistence.Store. It is shared by the server binary and the test
// fixtures so both run the same object graph.
package wiring

import (
	"log/slog"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/housekeeping/internal/application"
	httptransport "github.com/example/housekeeping/internal/http"
	"github.com/example/housekeeping/internal/persistence"
	"github.com/example/housekeeping/internal/session"
)

// Options carries the collaborators that are not derived from the store.
type Options struct {
	Codec    application.TokenCodec
	Denylist session.Denylist
	Hash     application.PasswordHasher
	Verify   application.PasswordVerifier
	Now      func() time.Time
	Logger   *slog.Logger
}

// Services is the assembled application layer.
type Services struct {
	Auth   *application.AuthService
	Rooms  *application.RoomService
	Users  *application.UserService
	Logs   *application.LogService
	Seeder *application.Seeder
}

// NewServices builds every service over store.
func NewServices(store persistence.Store, opts Options) Services {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	hash := opts.Hash
	if hash == nil {
		hash = application.HashPassword
	}

	users := newUserRepositoryAdapter(store)
	rooms := newRoomRepositoryAdapter(store)
	logs := newLogRepositoryAdapter(store)

	return Services{
		Auth:   application.NewAuthServiceWithLogger(users, opts.Codec, opts.Denylist, opts.Verify, opts.Logger),
		Rooms:  application.NewRoomServiceWithLogger(rooms, logs, now, opts.Logger),
		Users:  application.NewUserServiceWithLogger(users, logs, hash, now, opts.Logger),
		Logs:   application.NewLogServiceWithLogger(logs, opts.Logger),
		Seeder: application.NewSeeder(users, rooms, hash, now, opts.Logger),
	}
}

// HandlerOptions configures the HTTP surface.
type HandlerOptions struct {
	CookieMaxAge time.Duration
	SecureCookie bool
	Logger       *slog.Logger
}

// NewHandler builds the router for services. store backs the readiness probe.
func NewHandler(services Services, store persistence.Store, opts HandlerOptions) *mux.Router {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Auth: httptransport.NewAuthHandler(services.Auth, httptransport.AuthHandlerOptions{
			CookieMaxAge: opts.CookieMaxAge,
			SecureCookie: opts.SecureCookie,
		}, opts.Logger),
		Users:   httptransport.NewUserHandler(services.Users, opts.Logger),
		Rooms:   httptransport.NewRoomHandler(services.Rooms, opts.Logger),
		Logs:    httptransport.NewLogHandler(services.Logs, opts.Logger),
		Pages:   httptransport.NewPageHandler(opts.Logger),
		Session: services.Auth,
		Gate:    httptransport.GateOptions{SecureCookie: opts.SecureCookie},
		Store:   store,
		Logger:  opts.Logger,
	})
}
