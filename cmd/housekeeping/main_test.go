package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/example/housekeeping/internal/config"
	"github.com/example/housekeeping/internal/logging"
)

func testConfig(driver string) config.Config {
	var cfg config.Config
	cfg.App.Env = "development"
	cfg.Server.HTTPPort = 3000
	cfg.Database.Driver = driver
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTL = 2 * time.Hour
	cfg.Logs.Format = "json"
	cfg.Seed.Enabled = true
	return cfg
}

func login(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestNewServerMemorySeeded(t *testing.T) {
	srv, err := newServer(context.Background(), testConfig("memory"), logging.New("error", "json", io.Discard))
	require.NoError(t, err)
	t.Cleanup(srv.close)

	rec := login(t, srv.router)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	require.Equal(t, int((2 * time.Hour).Seconds()), cookie.MaxAge)
	require.False(t, cookie.Secure)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.AddCookie(cookie)
	rooms := httptest.NewRecorder()
	srv.router.ServeHTTP(rooms, req)
	require.Equal(t, http.StatusOK, rooms.Code)
	require.Contains(t, rooms.Body.String(), `"roomNumber":"101"`)
}

func TestNewServerSQLiteProductionCookie(t *testing.T) {
	cfg := testConfig("sqlite")
	cfg.App.Env = "production"
	cfg.Database.DSN = filepath.Join(t.TempDir(), "housekeeping.db")

	srv, err := newServer(context.Background(), cfg, logging.New("error", "json", io.Discard))
	require.NoError(t, err)
	t.Cleanup(srv.close)

	cookie := sessionCookie(login(t, srv.router))
	require.NotNil(t, cookie)
	require.True(t, cookie.Secure)

	ready := httptest.NewRecorder()
	srv.router.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, ready.Code)
}

func TestNewServerRedisDenylistRevokesOnLogout(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig("memory")
	cfg.Session.Denylist = "redis"
	cfg.Redis.Addr = mr.Addr()

	srv, err := newServer(context.Background(), cfg, logging.New("error", "json", io.Discard))
	require.NoError(t, err)
	t.Cleanup(srv.close)

	cookie := sessionCookie(login(t, srv.router))
	require.NotNil(t, cookie)

	logout := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	logout.AddCookie(cookie)
	srv.router.ServeHTTP(httptest.NewRecorder(), logout)
	require.NotEmpty(t, mr.Keys())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewServerRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig("memory")
	cfg.Session.Denylist = "redis"
	cfg.Redis.Addr = addr

	_, err := newServer(context.Background(), cfg, logging.New("error", "json", io.Discard))
	require.ErrorContains(t, err, "redis ping")
}

func TestRunHelp(t *testing.T) {
	err := run(context.Background(), []string{"--help"}, io.Discard)
	require.True(t, errors.Is(err, pflag.ErrHelp), "got %v", err)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Setenv("HOUSEKEEPING_CONFIG", "")
	t.Setenv("HOUSEKEEPING_DATABASE_DRIVER", "oracle")

	err := run(context.Background(), nil, io.Discard)
	require.ErrorContains(t, err, "database.driver")
}
