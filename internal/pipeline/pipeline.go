// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline is the entry point for turning raw model output into a
// safe, validated document. A Pipeline holds no mutable state and is safe
// for concurrent use.
package pipeline

import (
	"log/slog"

	"landingai/internal/extract"
	"landingai/internal/models"
	"landingai/internal/sanitize"
	"landingai/internal/validate"
)

// Recorder receives pipeline observations. metrics.Metrics implements it.
type Recorder interface {
	ObserveExtraction(method models.ParseMethod, warnings int)
	ObserveValidation(score int, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveExtraction(models.ParseMethod, int) {}
func (nopRecorder) ObserveValidation(int, error)              {}

// Pipeline extracts, sanitizes and validates documents under one policy.
type Pipeline struct {
	extractor *extract.Extractor
	recorder  Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder sets the observer for extraction and validation outcomes.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// New creates a pipeline that sanitizes with policy.
func New(policy sanitize.Policy, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extract.New(policy),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Policy returns the sanitization policy of the pipeline.
func (p *Pipeline) Policy() sanitize.Policy {
	return p.extractor.Policy()
}

// ParseAndSanitize extracts a document from raw model text and sanitizes
// all three parts. It always returns a usable document.
func (p *Pipeline) ParseAndSanitize(raw string) models.ExtractedPayload {
	payload := p.extractor.Extract(raw)
	for _, w := range payload.Warnings {
		slog.Debug("extraction warning", "method", payload.ParseMethod, "warning", w)
	}
	p.recorder.ObserveExtraction(payload.ParseMethod, len(payload.Warnings))
	return payload
}

// Sanitize runs an already split document through the sanitizers, as for
// user edits of a stored page.
func (p *Pipeline) Sanitize(doc models.SanitizedDocument) models.SanitizedDocument {
	policy := p.Policy()
	return models.SanitizedDocument{
		Markup:     sanitize.Markup(doc.Markup, policy),
		Stylesheet: sanitize.Stylesheet(doc.Stylesheet, policy),
		Script:     sanitize.Script(doc.Script, policy),
	}
}

// ValidateDocument scores doc. The error is non-nil only when the markup
// cannot be parsed; callers treat that as a missing report.
func (p *Pipeline) ValidateDocument(doc models.SanitizedDocument) (*models.ValidationReport, error) {
	report, err := validate.Validate(doc)
	if err != nil {
		p.recorder.ObserveValidation(0, err)
		return nil, err
	}
	p.recorder.ObserveValidation(report.SecurityScore, nil)
	return report, nil
}

var landing = New(sanitize.LandingPagePolicy())

// ParseAndSanitize runs the landing page pipeline over raw model text.
func ParseAndSanitize(raw string) models.ExtractedPayload {
	return landing.ParseAndSanitize(raw)
}

// ValidateDocument validates doc without recording metrics.
func ValidateDocument(doc models.SanitizedDocument) (*models.ValidationReport, error) {
	return landing.ValidateDocument(doc)
}
