// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine composes stored landing pages into a single HTML
// document for preview and publishing. Composition splices the already
// sanitized stylesheet and script into the sanitized markup; no parsing or
// sanitizing happens here.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"landingai/internal/models"
)

var (
	headCloseRe = regexp.MustCompile(`(?i)</head\s*>`)
	bodyCloseRe = regexp.MustCompile(`(?i)</body\s*>`)
	styleOpenRe = regexp.MustCompile(`(?i)<style[\s>]`)
	scriptRe    = regexp.MustCompile(`(?i)<script[\s>]`)
)

// Compose returns doc's markup with its stylesheet inlined in a <style>
// element before </head> and its script in a <script> element before
// </body>. A part is skipped when it is empty or the markup already
// carries an element of that kind. Without a closing head the style goes
// first; without a closing body the script goes last.
func Compose(doc models.SanitizedDocument) []byte {
	out := []byte(doc.Markup)

	if doc.Stylesheet != "" && !styleOpenRe.Match(out) {
		block := []byte("<style>\n" + doc.Stylesheet + "\n</style>\n")
		out = insertBefore(out, headCloseRe, block, false)
	}

	if doc.Script != "" && !scriptRe.Match(out) {
		block := []byte("<script>\n" + doc.Script + "\n</script>\n")
		out = insertBefore(out, bodyCloseRe, block, true)
	}

	return out
}

// insertBefore splices block in front of the first (or last) match of re.
// Without a match, block is prepended or appended depending on last.
func insertBefore(doc []byte, re *regexp.Regexp, block []byte, last bool) []byte {
	locs := re.FindAllIndex(doc, -1)
	if len(locs) == 0 {
		if last {
			return append(doc, block...)
		}
		return append(block, doc...)
	}

	at := locs[0][0]
	if last {
		at = locs[len(locs)-1][0]
	}

	var buf bytes.Buffer
	buf.Grow(len(doc) + len(block))
	buf.Write(doc[:at])
	buf.Write(block)
	buf.Write(doc[at:])
	return buf.Bytes()
}

// Shared is a cache reachable by every server instance, consulted after
// the in-process one. cache.PreviewCache implements it.
type Shared interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context)
}

// Engine composes landing pages behind a two-level cache: an in-memory
// L1 keyed by page ID and version, and an optional shared L2.
type Engine struct {
	cache  *previewCache
	shared Shared
}

// New creates an engine. shared may be nil when Valkey is not configured.
func New(shared Shared) *Engine {
	return &Engine{
		cache:  newPreviewCache(),
		shared: shared,
	}
}

// Preview returns the composed HTML for page, from cache when possible.
func (e *Engine) Preview(ctx context.Context, page *models.LandingPage) []byte {
	id, version := page.ID.String(), page.UpdatedAt.UnixNano()

	if html := e.cache.get(id, version); html != nil {
		return html
	}

	key := sharedKey(id, version)
	if e.shared != nil {
		if html, ok := e.shared.Get(ctx, key); ok {
			e.cache.put(id, version, html)
			return html
		}
	}

	html := Compose(page.Document)
	e.cache.put(id, version, html)
	if e.shared != nil {
		e.shared.Set(ctx, key, html)
	}
	return html
}

// Invalidate drops every cached composition of page.
func (e *Engine) Invalidate(ctx context.Context, page *models.LandingPage) {
	id := page.ID.String()
	e.cache.invalidate(id)
	if e.shared != nil {
		e.shared.Invalidate(ctx, sharedKey(id, page.UpdatedAt.UnixNano()))
	}
}

// InvalidateAll clears both cache levels.
func (e *Engine) InvalidateAll(ctx context.Context) {
	e.cache.invalidateAll()
	if e.shared != nil {
		e.shared.InvalidateAll(ctx)
	}
}

func sharedKey(id string, version int64) string {
	return fmt.Sprintf("%s:%d", id, version)
}
