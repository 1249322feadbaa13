package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Rooms   *RoomHandler
	Logs    *LogHandler
	Pages   *PageHandler
	Session SessionValidator
	Gate    GateOptions
	Store   Pinger
	Logger  *slog.Logger
	// Middleware runs inside the request id, recovery and logging layers.
	Middleware []mux.MiddlewareFunc
}

// NewRouter wires every route. Login, logout and health checks are public;
// everything else runs behind RequireSession.
func NewRouter(cfg RouterConfig) *mux.Router {
	logger := defaultLogger(cfg.Logger)

	router := mux.NewRouter()
	router.Use(RequestID, RequestLogger(logger), Recoverer(logger))
	for _, mw := range cfg.Middleware {
		if mw != nil {
			router.Use(mw)
		}
	}

	router.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
	router.HandleFunc("/readyz", readiness(cfg.Store)).Methods(http.MethodGet)

	if cfg.Auth != nil {
		router.HandleFunc("/api/auth/login", cfg.Auth.Login).Methods(http.MethodPost)
		router.HandleFunc("/api/auth/logout", cfg.Auth.Logout).Methods(http.MethodPost)
	}

	gated := router.NewRoute().Subrouter()
	gated.Use(RequireSession(cfg.Session, cfg.Gate, logger))

	if cfg.Auth != nil {
		gated.HandleFunc("/api/auth/user", cfg.Auth.CurrentUser).Methods(http.MethodGet)
	}

	if cfg.Rooms != nil {
		gated.HandleFunc("/api/rooms", cfg.Rooms.List).Methods(http.MethodGet)
		gated.HandleFunc("/api/rooms", cfg.Rooms.Create).Methods(http.MethodPost)
		gated.HandleFunc("/api/rooms/{id:[0-9]+}", cfg.Rooms.Update).Methods(http.MethodPatch, http.MethodPut)
		gated.HandleFunc("/api/rooms/{id:[0-9]+}", cfg.Rooms.Delete).Methods(http.MethodDelete)
	}

	if cfg.Users != nil {
		gated.HandleFunc("/api/users", cfg.Users.List).Methods(http.MethodGet)
		gated.HandleFunc("/api/users", cfg.Users.Create).Methods(http.MethodPost)
		gated.HandleFunc("/api/users/{id:[0-9]+}", cfg.Users.Get).Methods(http.MethodGet)
		gated.HandleFunc("/api/users/{id:[0-9]+}", cfg.Users.Update).Methods(http.MethodPatch, http.MethodPut)
		gated.HandleFunc("/api/users/{id:[0-9]+}", cfg.Users.Delete).Methods(http.MethodDelete)
	}

	if cfg.Logs != nil {
		gated.HandleFunc("/api/logs", cfg.Logs.List).Methods(http.MethodGet)
	}

	if cfg.Pages != nil {
		gated.HandleFunc("/", cfg.Pages.Rooms).Methods(http.MethodGet)
		gated.HandleFunc("/login", cfg.Pages.Login).Methods(http.MethodGet)
		gated.HandleFunc("/logs", cfg.Pages.Logs).Methods(http.MethodGet)
		gated.HandleFunc("/admin/users", cfg.Pages.Users).Methods(http.MethodGet)
	}

	return router
}

// Routes lists the registered path templates with their methods.
func Routes(router *mux.Router) []string {
	var out []string
	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := route.GetMethods()
		for _, m := range methods {
			out = append(out, m+" "+path)
		}
		return nil
	})
	return out
}
