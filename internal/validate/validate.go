// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate inspects a sanitized document and scores how much
// residual risk it carries. Validation is read-only; it never modifies the
// document.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"landingai/internal/models"
	"landingai/internal/sanitize"
)

// ErrUnparseable is returned when the markup cannot be parsed at all.
var ErrUnparseable = errors.New("validate: unparseable markup")

// Scoring constants.
const (
	MaxScore              = 100
	ScriptPatternPenalty  = 10
	StylePatternPenalty   = 5
	EventHandlerPenalty   = 15
	ExternalSourcePenalty = 5

	// LowScoreThreshold triggers the security recommendation.
	LowScoreThreshold = 80
	// MaxRecommendedSize is the total byte size above which a size
	// recommendation is added.
	MaxRecommendedSize = 100000
)

// Recommendation messages, emitted in this order.
const (
	RecommendTitle     = "Add a descriptive title tag for better SEO and accessibility"
	RecommendViewport  = "Add viewport meta tag for proper mobile responsiveness"
	RecommendCharset   = "Add charset meta tag to prevent encoding issues"
	RecommendStructure = "Ensure proper HTML document structure with html, head, and body elements"
	RecommendContent   = "Add visible content to the page body"
	RecommendResponse  = "Add responsive CSS media queries for better mobile experience"
	RecommendSecurity  = "Review and remove any remaining potentially dangerous code patterns"
	RecommendSize      = "Consider optimizing code size for better performance"
)

var bodyTagRe = regexp.MustCompile(`(?i)<body[\s>/]`)

// Validate computes structural flags, sizes, the security score and
// recommendations for doc. It returns ErrUnparseable only when the markup
// is empty or the parser rejects it.
func Validate(doc models.SanitizedDocument) (*models.ValidationReport, error) {
	if strings.TrimSpace(doc.Markup) == "" {
		return nil, fmt.Errorf("%w: empty markup", ErrUnparseable)
	}
	tree, err := html.Parse(strings.NewReader(doc.Markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	s := scan(tree)
	flags := models.StructuralFlags{
		HasTitle:     s.title,
		HasViewport:  s.viewport,
		HasCharset:   s.charset,
		HasBody:      bodyTagRe.MatchString(doc.Markup),
		HasContent:   s.content,
		IsResponsive: sanitize.HasMediaQuery(doc.Stylesheet) || s.inlineMedia,
	}
	size := models.SizeEstimate{
		Markup:     len(doc.Markup),
		Stylesheet: len(doc.Stylesheet),
		Script:     len(doc.Script),
		Total:      doc.TotalSize(),
	}
	score := securityScore(doc, s.handlers, s.externalSrc)

	return &models.ValidationReport{
		Flags:           flags,
		Size:            size,
		SecurityScore:   score,
		Recommendations: recommend(flags, score, size.Total),
	}, nil
}

// securityScore starts at MaxScore and subtracts a penalty for every residual match
// of the script and style deny patterns across all three parts, plus flat
// penalties for surviving event handlers and external sources. It never
// goes below zero.
func securityScore(doc models.SanitizedDocument, hasHandlers, hasExternalSrc bool) int {
	all := doc.Markup + "\n" + doc.Stylesheet + "\n" + doc.Script

	score := MaxScore
	for _, r := range sanitize.ScriptRules {
		score -= ScriptPatternPenalty * len(r.Pattern.FindAllStringIndex(all, -1))
	}
	for _, r := range sanitize.StyleRules {
		score -= StylePatternPenalty * len(r.Pattern.FindAllStringIndex(all, -1))
	}
	if hasHandlers {
		score -= EventHandlerPenalty
	}
	if hasExternalSrc {
		score -= ExternalSourcePenalty
	}
	return max(score, 0)
}

func recommend(f models.StructuralFlags, score, total int) []string {
	recs := []string{}
	add := func(missing bool, msg string) {
		if missing {
			recs = append(recs, msg)
		}
	}
	add(!f.HasTitle, RecommendTitle)
	add(!f.HasViewport, RecommendViewport)
	add(!f.HasCharset, RecommendCharset)
	add(!f.HasBody, RecommendStructure)
	add(!f.HasContent, RecommendContent)
	add(!f.IsResponsive, RecommendResponse)
	add(score < LowScoreThreshold, RecommendSecurity)
	add(total > MaxRecommendedSize, RecommendSize)
	return recs
}

// scanResult gathers everything Validate needs from one tree walk.
type scanResult struct {
	title, viewport, charset bool
	content                  bool
	inlineMedia              bool
	handlers                 bool
	externalSrc              bool
}

func scan(root *html.Node) scanResult {
	var s scanResult
	var visit func(n *html.Node, inBody bool)
	visit = func(n *html.Node, inBody bool) {
		switch n.Type {
		case html.TextNode:
			if inBody && strings.TrimSpace(n.Data) != "" {
				s.content = true
			}
		case html.ElementNode:
			for _, a := range n.Attr {
				key := strings.ToLower(a.Key)
				if strings.HasPrefix(key, "on") {
					s.handlers = true
				}
				if key == "src" && sanitize.IsExternalURL(a.Val) {
					s.externalSrc = true
				}
			}
			switch n.DataAtom {
			case atom.Title:
				s.title = s.title || n.Namespace == ""
			case atom.Meta:
				for _, a := range n.Attr {
					switch {
					case a.Key == "charset":
						s.charset = true
					case a.Key == "name" && strings.EqualFold(a.Val, "viewport"):
						s.viewport = true
					}
				}
			case atom.Body:
				inBody = true
			case atom.Style:
				if c := n.FirstChild; c != nil && sanitize.HasMediaQuery(c.Data) {
					s.inlineMedia = true
				}
				return
			case atom.Script:
				return
			}
			if n.DataAtom == atom.Img || n.DataAtom == atom.Svg || n.DataAtom == atom.Video {
				s.content = s.content || inBody
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inBody)
		}
	}
	visit(root, false)
	return s
}
