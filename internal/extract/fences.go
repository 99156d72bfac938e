// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"regexp"
	"strings"

	"landingai/internal/models"
)

var (
	fenceRe = regexp.MustCompile("(?s)```[ \\t]*([A-Za-z0-9_+-]*)[^\\n]*\\n(.*?)```")

	// bareMarkupRes are tried in order; each match is greedy so nested
	// elements of the same kind stay inside the span.
	bareMarkupRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:<!doctype[^>]*>\s*)?<html[\s>].*</html\s*>`),
		regexp.MustCompile(`(?is)<body[\s>].*</body\s*>`),
		regexp.MustCompile(`(?is)<div[\s>].*</div\s*>`),
	}
)

// fromFences collects fenced code blocks by label. The first html block is
// the markup, falling back to the first unlabeled block; the first css and
// javascript blocks fill the other parts.
func fromFences(text string) (result, bool) {
	var markup, unlabeled, css, js string
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "html", "htm", "xhtml":
			if markup == "" {
				markup = body
			}
		case "css":
			if css == "" {
				css = body
			}
		case "javascript", "js":
			if js == "" {
				js = body
			}
		case "":
			if unlabeled == "" {
				unlabeled = body
			}
		}
	}
	if markup == "" {
		markup = unlabeled
	}
	if markup == "" {
		return result{}, false
	}

	res := result{markup: markup, stylesheet: css, script: js, method: models.ParseMethodCodeBlocks}
	if css == "" && js == "" {
		res.warnings = append(res.warnings, "code blocks carried markup only")
	}
	return res, true
}

// fromBareMarkup takes the first html, body or div span found in text as
// the whole markup payload.
func fromBareMarkup(text string) (result, bool) {
	for _, re := range bareMarkupRes {
		if m := re.FindString(text); m != "" {
			return result{
				markup:   m,
				method:   models.ParseMethodExtracted,
				warnings: []string{"extracted markup without separate stylesheet or script"},
			}, true
		}
	}
	return result{}, false
}
