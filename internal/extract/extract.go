// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package extract pulls a markup/stylesheet/script triple out of free-form
// model output. Strategies run in a fixed order and the first one that
// yields non-empty markup wins; the last strategy always succeeds, so
// extraction never fails. Every result is passed through the sanitizers.
package extract

import (
	"log/slog"

	"landingai/internal/models"
	"landingai/internal/sanitize"
)

// result is the unsanitized output of a strategy.
type result struct {
	markup     string
	stylesheet string
	script     string
	method     models.ParseMethod
	warnings   []string
}

// strategy is one extraction attempt; ok is false when it found nothing.
type strategy func(text string) (res result, ok bool)

// strategies is the fixed attempt order. synthesize is appended by Extract
// since it cannot fail.
var strategies = []strategy{
	fromJSON,
	fromFences,
	fromBareMarkup,
}

// Extractor runs the strategies and sanitizes the winner with its policy.
type Extractor struct {
	policy sanitize.Policy
}

// New creates an Extractor that sanitizes with policy p.
func New(p sanitize.Policy) *Extractor {
	return &Extractor{policy: p}
}

// Policy returns the sanitization policy of the extractor.
func (e *Extractor) Policy() sanitize.Policy {
	return e.policy
}

// Extract decodes character references in text, runs the strategies in
// order and returns the sanitized payload of the first one that succeeds.
func (e *Extractor) Extract(text string) models.ExtractedPayload {
	decoded := sanitize.DecodeEntities(text)

	res, found := result{}, false
	for _, try := range strategies {
		if res, found = try(decoded); found {
			break
		}
	}
	if !found {
		res = synthesize(decoded)
	}
	slog.Debug("extraction strategy selected", "method", res.method, "input_bytes", len(text))

	return e.finish(res)
}

func (e *Extractor) finish(res result) models.ExtractedPayload {
	doc := models.SanitizedDocument{
		Markup:     sanitize.Markup(res.markup, e.policy),
		Stylesheet: sanitize.Stylesheet(res.stylesheet, e.policy),
		Script:     sanitize.Script(res.script, e.policy),
	}
	if doc.Markup == sanitize.FallbackDocument {
		res.warnings = append(res.warnings, "markup could not be parsed; replaced with a fallback document")
	}
	return models.ExtractedPayload{
		SanitizedDocument: doc,
		ParseMethod:       res.method,
		Warnings:          res.warnings,
	}
}
