package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/spf13/pflag"

	"github.com/example/housekeeping/internal/application"
	"github.com/example/housekeeping/internal/config"
	httptransport "github.com/example/housekeeping/internal/http"
	"github.com/example/housekeeping/internal/logging"
	"github.com/example/housekeeping/internal/persistence"
	"github.com/example/housekeeping/internal/persistence/memory"
	"github.com/example/housekeeping/internal/persistence/sqlite"
	"github.com/example/housekeeping/internal/persistence/sqlite/migration"
	"github.com/example/housekeeping/internal/session"
	"github.com/example/housekeeping/internal/wiring"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("housekeeping", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logs.Level, cfg.Logs.Format, stdout)
	if cfg.UsesFallbackSecret() {
		logger.Warn("session.secret is not set; using the built-in development secret")
	}

	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.close()

	for _, route := range httptransport.Routes(srv.router) {
		logger.Debug("route registered", "route", route)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("housekeeping dashboard listening", "addr", httpServer.Addr, "env", cfg.App.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// server is the assembled process: router plus the resources it owns.
type server struct {
	router  *mux.Router
	closers []func() error
	logger  *slog.Logger
}

func (s *server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Error("failed to release resource", "error", err)
		}
	}
}

func newServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*server, error) {
	srv := &server{logger: logger}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	srv.closers = append(srv.closers, store.Close)

	denylist, closeDenylist, err := openDenylist(ctx, cfg)
	if err != nil {
		srv.close()
		return nil, err
	}
	if closeDenylist != nil {
		srv.closers = append(srv.closers, closeDenylist)
	}

	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL, time.Now)
	if err != nil {
		srv.close()
		return nil, fmt.Errorf("session codec: %w", err)
	}

	services := wiring.NewServices(store, wiring.Options{
		Codec:    codec,
		Denylist: denylist,
		Logger:   logger,
	})

	if cfg.Seed.Enabled {
		result, err := services.Seeder.Seed(ctx, application.DefaultSeedUsers, application.DefaultSeedRooms)
		if err != nil {
			srv.close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		logger.Info("seed complete", "users_created", result.UsersCreated, "rooms_created", result.RoomsCreated)
	}

	srv.router = wiring.NewHandler(services, store, wiring.HandlerOptions{
		CookieMaxAge: cfg.Session.TTL,
		SecureCookie: cfg.IsProduction(),
		Logger:       logger,
	})
	return srv, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.Open(), nil
	case "sqlite":
		store, err := sqlite.Open(migration.DefaultSQLiteConfig(cfg.Database.DSN), logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Database.DSN, err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// openDenylist returns a nil Denylist when revocation is disabled.
func openDenylist(ctx context.Context, cfg config.Config) (session.Denylist, func() error, error) {
	switch cfg.Session.Denylist {
	case "":
		return nil, nil, nil
	case "memory":
		return session.NewMemoryDenylist(time.Now), nil, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		return session.NewRedisDenylist(client, "", time.Now), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session denylist %q", cfg.Session.Denylist)
	}
}
