// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sanitize

import (
	"regexp"
	"strings"
)

// responsiveBaseline is appended to stylesheets without any media query so
// every page has minimum mobile behaviour.
const responsiveBaseline = `/* Responsive baseline */
@media (max-width: 768px) {
  body { font-size: 14px; padding: 10px; }
  .container { max-width: 100%; padding: 15px; }
  h1 { font-size: 24px; }
  h2 { font-size: 20px; }
  h3 { font-size: 18px; }
}

@media (max-width: 480px) {
  body { font-size: 12px; padding: 5px; }
  .container { padding: 10px; }
  h1 { font-size: 20px; }
  h2 { font-size: 18px; }
  h3 { font-size: 16px; }
}`

var (
	mediaQueryRe = regexp.MustCompile(`(?i)@media\b`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// Stylesheet neutralizes dangerous constructs in css under policy p and
// appends the responsive baseline when no media query is present. An empty
// stylesheet stays empty.
func Stylesheet(css string, p Policy) string {
	css = strings.TrimSpace(css)
	if css == "" {
		return ""
	}
	css = stripStyle(css, p, removedMarker)
	if !HasMediaQuery(css) {
		css += "\n\n" + responsiveBaseline
	}
	return css
}

// InlineStyle cleans a style attribute value with the strictest settings:
// every deny rule applies and matches are deleted outright.
func InlineStyle(value string) string {
	v := stripStyle(value, Policy{}, "")
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(v, " "))
}

// HasMediaQuery reports whether css contains an @media rule.
func HasMediaQuery(css string) bool {
	return mediaQueryRe.MatchString(css)
}

func stripStyle(css string, p Policy, repl string) string {
	for _, r := range StyleRules {
		if r.applies(p) {
			css = r.Pattern.ReplaceAllLiteralString(css, repl)
		}
	}
	// A stylesheet ends up inside a <style> element; "<" is never needed
	// outside strings, where the CSS escape renders the same character.
	return strings.ReplaceAll(css, "<", `\3c `)
}
