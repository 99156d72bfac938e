// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"landingai/internal/middleware"
	"landingai/internal/models"
	"landingai/internal/slug"
	"landingai/internal/store"
)

// Preview handles GET /{id}/preview and serves the composed document.
// The page may be framed by the dashboard but runs under a restrictive CSP.
func (h *LandingPages) Preview(w http.ResponseWriter, r *http.Request) {
	page, ok := h.loadPage(w, r, "preview")
	if !ok {
		return
	}

	html := h.engine.Preview(r.Context(), page)

	middleware.AllowFraming(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		slog.Debug("preview write failed", "id", page.ID, "error", err)
	}
}

// Publish handles POST /{id}/publish. The composed page is uploaded to
// object storage and the page is marked published with its public URL.
func (h *LandingPages) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.publisher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Publishing is not configured", nil)
		return
	}

	page, ok := h.loadPage(w, r, "publish")
	if !ok {
		return
	}
	previous := *page

	key := slug.ObjectKey(page.Title, page.ID)
	url, err := h.publisher.PublishPage(ctx, key, h.engine.Preview(ctx, page))
	if err != nil {
		slog.Error("page upload failed", "id", page.ID, "key", key, "error", err)
		middleware.WriteError(w, http.StatusBadGateway, "PUBLISH_ERROR", "Failed to publish landing page", nil)
		return
	}

	page.Status = models.PageStatusPublished
	page.URL = &url
	if err := h.store.Update(ctx, page); err != nil {
		h.storeError(w, err, "publish")
		return
	}
	h.invalidate(ctx, &previous, store.ActionPublish)

	slog.Info("landing page published", "id", page.ID, "user_id", page.UserID, "url", url)
	writeData(w, http.StatusOK, page, "Landing page published successfully")
}
