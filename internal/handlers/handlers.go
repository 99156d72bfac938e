// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the landing page HTTP API. Every endpoint
// except health and metrics requires an authenticated user and only ever
// touches that user's pages.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"landingai/internal/ai"
	"landingai/internal/engine"
	"landingai/internal/middleware"
	"landingai/internal/models"
	"landingai/internal/pipeline"
	"landingai/internal/store"
)

// PageStore persists landing pages. store.LandingPageStore implements it.
type PageStore interface {
	Create(ctx context.Context, p *models.LandingPage) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*models.LandingPage, error)
	ListByUser(ctx context.Context, userID string, status models.PageStatus, limit, offset int) ([]models.LandingPage, error)
	CountByUser(ctx context.Context, userID string, status models.PageStatus) (int, error)
	Update(ctx context.Context, p *models.LandingPage) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// Generator produces model text and screens prompts. ai.Registry
// implements it.
type Generator interface {
	GenerateWithOptions(ctx context.Context, opts ai.Options, systemPrompt, userPrompt string) (string, error)
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
	ActiveName() string
	Model(name string) string
}

// Publisher uploads composed pages. storage.Client implements it.
type Publisher interface {
	PublishPage(ctx context.Context, key string, html []byte) (string, error)
	Unpublish(ctx context.Context, rawURL string) error
}

// InvalidationLog records preview cache invalidations.
// store.CacheLogStore implements it.
type InvalidationLog interface {
	Log(ctx context.Context, pageID uuid.UUID, action string)
}

// AIObserver receives one observation per upstream generation call.
// metrics.Metrics implements it.
type AIObserver interface {
	ObserveAIRequest(provider string, d time.Duration, err error)
}

// Deps are the collaborators of the landing page handlers. Publisher,
// CacheLog and Observer are optional.
type Deps struct {
	Store     PageStore
	AI        Generator
	Pipeline  *pipeline.Pipeline
	Engine    *engine.Engine
	Publisher Publisher
	CacheLog  InvalidationLog
	Observer  AIObserver

	// Timeout bounds a single upstream call; Retries is the total number
	// of attempts.
	Timeout time.Duration
	Retries int
}

// LandingPages serves /api/landing-pages.
type LandingPages struct {
	store     PageStore
	ai        Generator
	pipeline  *pipeline.Pipeline
	engine    *engine.Engine
	publisher Publisher
	cacheLog  InvalidationLog
	observer  AIObserver
	timeout   time.Duration
	retries   int
}

// NewLandingPages creates the handlers.
func NewLandingPages(d Deps) *LandingPages {
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}
	if d.Retries < 1 {
		d.Retries = 1
	}
	return &LandingPages{
		store:     d.Store,
		ai:        d.AI,
		pipeline:  d.Pipeline,
		engine:    d.Engine,
		publisher: d.Publisher,
		cacheLog:  d.CacheLog,
		observer:  d.Observer,
		timeout:   d.Timeout,
		retries:   d.Retries,
	}
}

// envelope is the body of every successful JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	middleware.WriteJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// loadPage resolves the {id} URL parameter to a page owned by the caller.
// On failure it has already written the response.
func (h *LandingPages) loadPage(w http.ResponseWriter, r *http.Request, op string) (*models.LandingPage, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Invalid landing page id", nil)
		return nil, false
	}

	page, err := h.store.FindByID(r.Context(), id, middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		h.storeError(w, err, op)
		return nil, false
	}
	return page, true
}

// storeError maps store errors to responses. op names the failing
// operation in the log and in the error code of unexpected failures.
func (h *LandingPages) storeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Landing page not found", nil)
	case errors.Is(err, store.ErrForbidden):
		middleware.WriteError(w, http.StatusForbidden, "ACCESS_DENIED", "You do not have access to this landing page", nil)
	default:
		slog.Error("landing page "+op+" failed", "error", err)
		middleware.WriteError(w, http.StatusInternalServerError, errorCode(op), "Failed to "+op+" landing page", nil)
	}
}

// invalidate drops the cached previews of page and records why.
func (h *LandingPages) invalidate(ctx context.Context, page *models.LandingPage, action string) {
	h.engine.Invalidate(ctx, page)
	if h.cacheLog != nil {
		h.cacheLog.Log(ctx, page.ID, action)
	}
}
