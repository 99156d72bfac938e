// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the
// landing page service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"landingai/internal/handlers"
	"landingai/internal/metrics"
	"landingai/internal/middleware"
)

// Config carries the cross-cutting settings of the router.
type Config struct {
	JWTSecret   []byte
	CORSOrigins []string
	HSTS        bool

	// Limiter throttles the API group; nil disables rate limiting.
	Limiter *middleware.RateLimiter
	// Metrics observes requests and serves /metrics; nil disables both.
	Metrics *metrics.Metrics
	// Health lists the dependency checks behind /health.
	Health map[string]handlers.Check
}

// New creates the router with all middleware and route groups wired up.
func New(cfg Config, pages *handlers.LandingPages) http.Handler {
	r := chi.NewRouter()

	var obs middleware.HTTPObserver
	if cfg.Metrics != nil {
		obs = cfg.Metrics
	}

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger(obs))
	r.Use(middleware.SecureHeaders(cfg.HSTS))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health and metrics: no auth, no rate limit.
	r.Get("/health", handlers.Health(cfg.Health))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/landing-pages", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}
		r.Use(middleware.RequireAuth(cfg.JWTSecret))

		r.Post("/generate", pages.Generate)
		r.Get("/list", pages.List)
		r.Get("/{id}", pages.Get)
		r.Put("/{id}", pages.Update)
		r.Delete("/{id}", pages.Delete)
		r.Get("/{id}/preview", pages.Preview)
		r.Post("/{id}/publish", pages.Publish)
	})

	return corsHandler(cfg.CORSOrigins).Handler(r)
}

func corsHandler(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
