package testfixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redis/v8"

	"github.com/example/housekeeping/internal/application"
	"github.com/example/housekeeping/internal/persistence"
	"github.com/example/housekeeping/internal/persistence/memory"
	"github.com/example/housekeeping/internal/session"
	"github.com/example/housekeeping/internal/wiring"
)

// App is the full server object graph over a seeded store.
type App struct {
	Store    persistence.Store
	Clock    *Clock
	TokenIDs *IDGenerator
	Codec    *session.Codec
	Denylist session.Denylist
	Services wiring.Services
	Handler  http.Handler
}

type appConfig struct {
	store    func(tb testing.TB, clock *Clock) persistence.Store
	denylist func(clock *Clock) session.Denylist
	logger   *slog.Logger
	seed     bool
}

// AppOption customises NewApp.
type AppOption func(*appConfig)

// WithSQLite backs the App with a temporary SQLite database instead of memory.
func WithSQLite() AppOption {
	return func(c *appConfig) {
		c.store = func(tb testing.TB, _ *Clock) persistence.Store { return NewSQLiteStore(tb) }
	}
}

// WithMemoryDenylist enables logout revocation through an in-process denylist.
func WithMemoryDenylist() AppOption {
	return func(c *appConfig) {
		c.denylist = func(clock *Clock) session.Denylist { return session.NewMemoryDenylist(clock.Now) }
	}
}

// WithRedisDenylist enables logout revocation through Redis. The denylist
// shares the App clock so key TTLs follow the token lifetime.
func WithRedisDenylist(client *redis.Client) AppOption {
	return func(c *appConfig) {
		c.denylist = func(clock *Clock) session.Denylist { return session.NewRedisDenylist(client, "", clock.Now) }
	}
}

// WithLogger routes operational logs to logger.
func WithLogger(logger *slog.Logger) AppOption {
	return func(c *appConfig) {
		c.logger = logger
	}
}

// WithoutSeed starts from an empty store.
func WithoutSeed() AppOption {
	return func(c *appConfig) {
		c.seed = false
	}
}

// NewApp wires every service and the router. By default the store is in
// memory and seeded with the demo users and rooms.
func NewApp(tb testing.TB, opts ...AppOption) *App {
	tb.Helper()

	cfg := appConfig{
		store: func(_ testing.TB, clock *Clock) persistence.Store { return memory.OpenWithClock(clock.Now) },
		seed:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = DiscardLogger()
	}

	clock := NewClock(ReferenceTime())
	ids := NewIDGenerator("jti")

	codec, err := session.NewCodec(TestSecret, session.DefaultTTL, clock.Now)
	if err != nil {
		tb.Fatalf("failed to build codec: %v", err)
	}
	codec.WithTokenIDs(ids.Next)

	var denylist session.Denylist
	if cfg.denylist != nil {
		denylist = cfg.denylist(clock)
	}

	store := cfg.store(tb, clock)
	services := wiring.NewServices(store, wiring.Options{
		Codec:    codec,
		Denylist: denylist,
		Hash:     CheapHash,
		Now:      clock.Now,
		Logger:   cfg.logger,
	})

	if cfg.seed {
		if _, err := services.Seeder.Seed(context.Background(), application.DefaultSeedUsers, application.DefaultSeedRooms); err != nil {
			tb.Fatalf("failed to seed store: %v", err)
		}
	}

	return &App{
		Store:    store,
		Clock:    clock,
		TokenIDs: ids,
		Codec:    codec,
		Denylist: denylist,
		Services: services,
		Handler:  wiring.NewHandler(services, store, wiring.HandlerOptions{Logger: cfg.logger}),
	}
}

// UserID returns the id of the account with email.
func (a *App) UserID(tb testing.TB, email string) int64 {
	tb.Helper()
	user, err := a.Store.GetUserByEmail(context.Background(), email)
	if err != nil {
		tb.Fatalf("lookup %s: %v", email, err)
	}
	return user.ID
}

// RoomID returns the id of the room with number.
func (a *App) RoomID(tb testing.TB, number string) int64 {
	tb.Helper()
	room, err := a.Store.GetRoomByNumber(context.Background(), number)
	if err != nil {
		tb.Fatalf("lookup room %s: %v", number, err)
	}
	return room.ID
}

// SessionCookie mints a token for the account with email, bypassing login.
func (a *App) SessionCookie(tb testing.TB, email string) *http.Cookie {
	tb.Helper()
	user, err := a.Store.GetUserByEmail(context.Background(), email)
	if err != nil {
		tb.Fatalf("lookup %s: %v", email, err)
	}
	token, err := a.Codec.Mint(user.ID, user.Role)
	if err != nil {
		tb.Fatalf("mint token: %v", err)
	}
	return &http.Cookie{Name: "token", Value: token.Value}
}

// Login posts credentials to the login endpoint and returns the session cookie.
func (a *App) Login(tb testing.TB, email, password string) *http.Cookie {
	tb.Helper()
	rec := a.Do(tb, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	if rec.Code != http.StatusOK {
		tb.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c
		}
	}
	tb.Fatalf("login %s: no token cookie", email)
	return nil
}

// Do sends a request through the router. body, when non-nil, is encoded as JSON.
func (a *App) Do(tb testing.TB, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	tb.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			tb.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	return rec
}
