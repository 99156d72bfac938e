// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PageStatus represents the publishing state of a landing page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
	PageStatusArchived  PageStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s PageStatus) Valid() bool {
	switch s {
	case PageStatusDraft, PageStatusPublished, PageStatusArchived:
		return true
	}
	return false
}

// AIMetadata describes how a landing page was generated.
type AIMetadata struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	ProcessingTime int64       `json:"processing_time_ms"`
	ParseMethod    ParseMethod `json:"parse_method"`
	Keywords       []string    `json:"keywords,omitempty"`
	Language       string      `json:"language"`
	Warnings       []string    `json:"warnings,omitempty"`
}

// LandingPage is a generated page owned by a single user. Document holds the
// sanitized three-part output; Validation is nil when validation failed.
type LandingPage struct {
	ID              uuid.UUID         `json:"id"`
	UserID          string            `json:"user_id"`
	Title           string            `json:"title"`
	Prompt          string            `json:"prompt"`
	EnhancedPrompt  string            `json:"enhanced_prompt"`
	Document        SanitizedDocument `json:"generated_code"`
	Status          PageStatus        `json:"status"`
	URL             *string           `json:"url"`
	AIMetadata      AIMetadata        `json:"ai_metadata"`
	Validation      *ValidationReport `json:"validation"`
	Recommendations []string          `json:"recommendations"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsPublished returns true if the page has been published.
func (p *LandingPage) IsPublished() bool {
	return p.Status == PageStatusPublished
}
