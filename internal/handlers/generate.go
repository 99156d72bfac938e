// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"landingai/internal/ai"
	"landingai/internal/middleware"
	"landingai/internal/models"
	"landingai/internal/prompt"
)

// Generate handles POST /generate. The prompt is validated and screened,
// sent to the AI provider with retries, and the reply is extracted,
// sanitized and scored before the page is stored as a draft.
func (h *LandingPages) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserIDFromCtx(ctx)

	var req prompt.Request
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}

	processed, err := prompt.Process(req)
	if err != nil {
		if details := prompt.Details(err); details != nil {
			middleware.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", details)
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	mod, err := h.ai.CheckPrompt(ctx, processed.Original)
	if err != nil {
		slog.Warn("moderation unavailable, allowing prompt", "user_id", userID, "error", err)
	} else if !mod.Safe {
		slog.Warn("prompt rejected by moderation", "user_id", userID, "categories", mod.Categories)
		middleware.WriteError(w, http.StatusBadRequest, "CONTENT_POLICY_VIOLATION",
			"Content violates usage policy: "+strings.Join(mod.Categories, ", "), nil)
		return
	}

	provider := processed.Options.Provider
	if provider == "" {
		provider = h.ai.ActiveName()
	}
	opts := ai.Options{
		Provider:    provider,
		Temperature: processed.Options.Temperature,
		MaxTokens:   processed.Options.MaxTokens,
		TopP:        processed.Options.TopP,
	}

	start := time.Now()
	text, err := ai.Retry(ctx, h.retries, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()

		callStart := time.Now()
		out, err := h.ai.GenerateWithOptions(callCtx, opts, ai.SystemPrompt, processed.Enhanced)
		if h.observer != nil {
			h.observer.ObserveAIRequest(provider, time.Since(callStart), err)
		}
		return out, err
	})
	elapsed := time.Since(start)
	if err != nil {
		h.generationError(w, r, provider, err)
		return
	}

	payload := h.pipeline.ParseAndSanitize(text)

	report, err := h.pipeline.ValidateDocument(payload.SanitizedDocument)
	recommendations := []string{}
	if err != nil {
		slog.Warn("validation failed, storing page without report", "user_id", userID, "error", err)
		report = nil
	} else {
		recommendations = report.Recommendations
	}

	page := &models.LandingPage{
		UserID:         userID,
		Title:          processed.Title,
		Prompt:         processed.Original,
		EnhancedPrompt: processed.Enhanced,
		Document:       payload.SanitizedDocument,
		Status:         models.PageStatusDraft,
		AIMetadata: models.AIMetadata{
			Provider:       provider,
			Model:          h.ai.Model(provider),
			ProcessingTime: elapsed.Milliseconds(),
			ParseMethod:    payload.ParseMethod,
			Keywords:       processed.Keywords,
			Language:       processed.Language,
			Warnings:       payload.Warnings,
		},
		Validation:      report,
		Recommendations: recommendations,
	}

	if err := h.store.Create(ctx, page); err != nil {
		slog.Error("landing page save failed", "user_id", userID, "error", err)
		middleware.WriteError(w, http.StatusInternalServerError, "SAVE_ERROR", "Failed to save landing page", nil)
		return
	}

	slog.Info("landing page generated",
		"id", page.ID,
		"user_id", userID,
		"provider", provider,
		"parse_method", payload.ParseMethod,
		"duration_ms", elapsed.Milliseconds(),
	)
	writeData(w, http.StatusCreated, page, "Landing page generated successfully")
}

// generationError maps a failed AI call to a response. Unknown providers
// are the caller's fault; everything else is an upstream failure.
func (h *LandingPages) generationError(w http.ResponseWriter, r *http.Request, provider string, err error) {
	if r.Context().Err() != nil {
		slog.Info("generation abandoned by client", "provider", provider)
		return
	}

	if errors.Is(err, ai.ErrNoProvider) {
		middleware.WriteError(w, http.StatusBadRequest, "PROVIDER_UNAVAILABLE",
			fmt.Sprintf("AI provider %q is not configured", provider), nil)
		return
	}

	slog.Error("ai generation failed", "provider", provider, "error", err)

	code := "GENERATION_ERROR"
	var apiErr *ai.APIError
	if errors.As(err, &apiErr) {
		code = errorCode(apiErr.Provider + " api")
	}
	middleware.WriteError(w, http.StatusBadGateway, code, "Failed to generate landing page", nil)
}

// errorCode turns "update" into "UPDATE_ERROR" and "kimi api" into
// "KIMI_API_ERROR".
func errorCode(op string) string {
	return strings.ToUpper(strings.ReplaceAll(op, " ", "_")) + "_ERROR"
}
