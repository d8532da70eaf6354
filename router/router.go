// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/danielhkuo/betdesk/auth"
	"github.com/danielhkuo/betdesk/cliparse"
	"github.com/danielhkuo/betdesk/events"
	"github.com/danielhkuo/betdesk/handlers"
	"github.com/danielhkuo/betdesk/middleware"
)

// Services are the collaborators built outside the router. Nil fields get
// defaults: a token service from the config, the SQL revoker, no events and
// no logging.
type Services struct {
	Tokens    *auth.TokenService
	Revoker   auth.Revoker
	Publisher events.Publisher
	Logger    *zap.Logger
}

func (s *Services) fill(db *sql.DB, cfg cliparse.Config) error {
	if s.Tokens == nil {
		tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return err
		}
		s.Tokens = tokens
	}
	if s.Revoker == nil {
		s.Revoker = auth.NewSQLRevoker(db)
	}
	if s.Publisher == nil {
		s.Publisher = events.Nop{}
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	return nil
}

func NewRouter(db *sql.DB, cfg cliparse.Config, svc Services) (*chi.Mux, error) {
	if err := svc.fill(db, cfg); err != nil {
		return nil, err
	}
	log := svc.Logger

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, svc.Tokens, svc.Revoker, log)
	userHandler := handlers.NewUserHandler(db, cfg, log)
	matchHandler := handlers.NewMatchHandler(db, cfg, svc.Publisher, log)
	orderHandler := handlers.NewOrderHandler(db, cfg, svc.Publisher, log)

	metrics := middleware.NewMetrics()
	bearer := middleware.RequireBearer(svc.Tokens, svc.Revoker, log)
	apiKey := middleware.RequireAPIKey(cfg.APIKey, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithLogging(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Liveness and monitoring
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("unhealthy"))
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	// Session
	r.Post("/login", authHandler.Login)
	r.With(bearer).Get("/me", authHandler.Me)
	r.With(bearer).Post("/logout", authHandler.Logout)

	// Users: registration is open, everything else is administrative
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(apiKey)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Replace)
			r.Patch("/{id}", userHandler.Patch)
			r.Patch("/{id}/status", userHandler.PatchStatus)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	// Matches: reads are public, writes need the API key
	r.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{id}", matchHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(apiKey)
			r.Post("/", matchHandler.Create)
			r.Put("/{id}", matchHandler.Replace)
			r.Patch("/{id}", matchHandler.Patch)
			r.Delete("/{id}", matchHandler.Delete)
		})
	})

	// Orders: same split as matches, no PUT
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orderHandler.List)
		r.Get("/{id}", orderHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(apiKey)
			r.Post("/", orderHandler.Create)
			r.Patch("/{id}", orderHandler.Patch)
			r.Delete("/{id}", orderHandler.Delete)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("betdesk API v1"))
	})

	return r, nil
}
