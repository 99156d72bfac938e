// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"landingai/internal/middleware"
	"landingai/internal/models"
	"landingai/internal/prompt"
	"landingai/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageSummary is the list representation of a landing page.
type pageSummary struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Status     models.PageStatus `json:"status"`
	URL        *string           `json:"url"`
	Model      string            `json:"model"`
	Processing int64             `json:"processing_time_ms"`
	Score      *int              `json:"security_score"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func summarize(p models.LandingPage) pageSummary {
	s := pageSummary{
		ID:         p.ID,
		Title:      p.Title,
		Status:     p.Status,
		URL:        p.URL,
		Model:      p.AIMetadata.Model,
		Processing: p.AIMetadata.ProcessingTime,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Validation != nil {
		score := p.Validation.SecurityScore
		s.Score = &score
	}
	return s
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// List handles GET /list?page=&limit=&status=. Unknown statuses are
// ignored and list every page.
func (h *LandingPages) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserIDFromCtx(ctx)
	q := r.URL.Query()

	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	status := models.PageStatus(q.Get("status"))
	if !status.Valid() {
		status = ""
	}

	pages, err := h.store.ListByUser(ctx, userID, status, limit, (page-1)*limit)
	if err != nil {
		h.storeError(w, err, "list")
		return
	}
	total, err := h.store.CountByUser(ctx, userID, status)
	if err != nil {
		h.storeError(w, err, "list")
		return
	}

	items := make([]pageSummary, 0, len(pages))
	for _, p := range pages {
		items = append(items, summarize(p))
	}

	writeData(w, http.StatusOK, map[string]any{
		"landing_pages": items,
		"pagination": pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, "")
}

// queryInt parses a positive integer, falling back to def.
func queryInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Get handles GET /{id}.
func (h *LandingPages) Get(w http.ResponseWriter, r *http.Request) {
	page, ok := h.loadPage(w, r, "get")
	if !ok {
		return
	}
	writeData(w, http.StatusOK, page, "")
}

// Update handles PUT /{id}. An edited document goes through the same
// sanitizers as generated output and is scored again.
func (h *LandingPages) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}
	if req.empty() {
		middleware.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Nothing to update", nil)
		return
	}
	if err := req.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", prompt.Details(err))
		return
	}
	if req.Document != nil {
		if err := documentRules(req.Document); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", documentDetails(err))
			return
		}
	}

	page, ok := h.loadPage(w, r, "update")
	if !ok {
		return
	}
	previous := *page

	if req.Title != nil {
		page.Title = req.trimmedTitle()
	}
	if req.Status != nil {
		page.Status = *req.Status
	}
	if req.Document != nil {
		page.Document = h.pipeline.Sanitize(*req.Document)
		report, err := h.pipeline.ValidateDocument(page.Document)
		if err != nil {
			slog.Warn("validation failed on update", "id", page.ID, "error", err)
			page.Validation, page.Recommendations = nil, []string{}
		} else {
			page.Validation, page.Recommendations = report, report.Recommendations
		}
	}

	if err := h.store.Update(ctx, page); err != nil {
		h.storeError(w, err, "update")
		return
	}
	h.invalidate(ctx, &previous, store.ActionUpdate)

	slog.Info("landing page updated", "id", page.ID, "user_id", page.UserID)
	writeData(w, http.StatusOK, page, "Landing page updated successfully")
}

// Delete handles DELETE /{id}. A published copy is removed from storage on
// a best-effort basis.
func (h *LandingPages) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, ok := h.loadPage(w, r, "delete")
	if !ok {
		return
	}

	if err := h.store.Delete(ctx, page.ID, page.UserID); err != nil {
		h.storeError(w, err, "delete")
		return
	}
	h.invalidate(ctx, page, store.ActionDelete)

	if page.URL != nil && h.publisher != nil {
		if err := h.publisher.Unpublish(ctx, *page.URL); err != nil {
			slog.Warn("unpublish failed", "id", page.ID, "url", *page.URL, "error", err)
		}
	}

	slog.Info("landing page deleted", "id", page.ID, "user_id", page.UserID)
	middleware.WriteJSON(w, http.StatusOK, envelope{Success: true, Message: "Landing page deleted successfully"})
}

// documentDetails addresses document rule failures as generated_code.<part>.
func documentDetails(err error) []prompt.FieldError {
	out := prompt.Details(err)
	for i := range out {
		out[i].Field = "generated_code." + out[i].Field
	}
	return out
}
