// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// removedMarker replaces neutralized spans in stylesheets and scripts.
const removedMarker = "/* removed */"

// neutralCall stands in for a dangerous callee so the surrounding call
// expression stays syntactically valid and does nothing.
const neutralCall = removedMarker + " (function () {})("

// Rule is one entry of a deny table: every match of Pattern is rewritten to
// Replacement unless Allowed reports that the policy lets it through.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
	// Allowed is nil for rules that apply under every policy.
	Allowed func(Policy) bool
}

func (r Rule) applies(p Policy) bool {
	return r.Allowed == nil || !r.Allowed(p)
}

func allowEval(p Policy) bool          { return p.AllowEval }
func allowDOMWrite(p Policy) bool      { return p.AllowDOMWrite }
func allowGlobal(p Policy) bool        { return p.AllowGlobalObjectAccess }
func allowImports(p Policy) bool       { return p.AllowStyleImports }
func allowExpressions(p Policy) bool   { return p.AllowStyleExpressions }
func allowScripts(p Policy) bool       { return p.AllowScripts }
func allowForms(p Policy) bool         { return p.AllowForms }
func allowExternalLinks(p Policy) bool { return p.AllowExternalLinks }

// ScriptRules is the script deny table, applied in order. The same patterns
// are used by the validator to score residual risk.
var ScriptRules = []Rule{
	{
		Name:        "eval",
		Pattern:     regexp.MustCompile(`\beval\s*\(`),
		Replacement: neutralCall,
		Allowed:     allowEval,
	},
	{
		Name:        "function-constructor",
		Pattern:     regexp.MustCompile(`\bFunction\s*\(`),
		Replacement: neutralCall,
		Allowed:     allowEval,
	},
	{
		Name: "string-timer",
		Pattern: regexp.MustCompile(`\b(setTimeout|setInterval)\s*\(\s*(?:"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'|` +
			"`(?:[^`\\\\]|\\\\.)*`)"),
		Replacement: "${1}(function () { " + removedMarker + " }",
		Allowed:     allowEval,
	},
	{
		Name:        "document-write",
		Pattern:     regexp.MustCompile(`\bdocument\s*\.\s*write(?:ln)?\s*\(`),
		Replacement: "console.log(",
	},
	{
		Name:        "markup-assignment",
		Pattern:     regexp.MustCompile(`\.\s*(?:inner|outer)HTML\s*(\+?)=([^=]|$)`),
		Replacement: ".textContent ${1}=${2}",
	},
	{
		Name:        "insert-adjacent-html",
		Pattern:     regexp.MustCompile(`\.\s*insertAdjacentHTML\s*\(`),
		Replacement: ".insertAdjacentText(",
		Allowed:     allowDOMWrite,
	},
	{
		Name:        "document-open",
		Pattern:     regexp.MustCompile(`\bdocument\s*\.\s*open\s*\(`),
		Replacement: neutralCall,
		Allowed:     allowDOMWrite,
	},
	{
		Name:        "global-object",
		Pattern:     regexp.MustCompile(`(^|[^.\w$])(?:window|globalThis|global|process)\.([A-Za-z_$])`),
		Replacement: "${1}" + removedMarker + " ${2}",
		Allowed:     allowGlobal,
	},
}

// scriptEscapes keep a script payload from terminating or confusing the
// enclosing <script> element it is later spliced into.
var scriptEscapes = []Rule{
	{Name: "script-close", Pattern: regexp.MustCompile(`(?i)</(script)`), Replacement: `<\/${1}`},
	{Name: "comment-open", Pattern: regexp.MustCompile(`<!--`), Replacement: `<\!--`},
}

// StyleRules is the stylesheet deny table. Inline style attributes apply
// every rule regardless of policy.
var StyleRules = []Rule{
	{
		Name:    "expression",
		Pattern: regexp.MustCompile(`(?i)\bexpression\s*\((?:[^();{}]|\([^()]*\))*\)?`),
		Allowed: allowExpressions,
	},
	{Name: "javascript-url", Pattern: regexp.MustCompile(`(?i)\bjavascript\s*:`)},
	{Name: "vbscript-url", Pattern: regexp.MustCompile(`(?i)\bvbscript\s*:`)},
	{Name: "html-data-url", Pattern: regexp.MustCompile(`(?i)\bdata\s*:\s*text/html`)},
	{Name: "behavior", Pattern: regexp.MustCompile(`(?i)(?:-ms-)?\bbehavior\s*:\s*(?:url|expression)\s*\([^)]*\)?`)},
	{Name: "binding", Pattern: regexp.MustCompile(`(?i)(?:-moz-)?\bbinding\s*:\s*url\s*\([^)]*\)?`)},
	{
		Name:    "import",
		Pattern: regexp.MustCompile(`(?i)@import\b[^;]*;?`),
		Allowed: allowImports,
	},
	{Name: "progid-filter", Pattern: regexp.MustCompile(`(?i)\bfilter\s*:\s*progid[^;}]*`)},
}

// elementRule removes an element and its subtree when it matches and the
// policy does not allow it.
type elementRule struct {
	tag     string
	allowed func(Policy) bool
	// match narrows the rule to elements with a given shape; nil matches all.
	match func(n *html.Node) bool
}

var deniedElements = []elementRule{
	{tag: "script", allowed: allowScripts},
	{tag: "iframe"},
	{tag: "frame"},
	{tag: "frameset"},
	{tag: "object"},
	{tag: "embed"},
	{tag: "applet"},
	{tag: "base"},
	{tag: "portal"},
	// Raw text containers are serialized verbatim, so their contents could
	// reparse as live markup.
	{tag: "noscript"},
	{tag: "noembed"},
	{tag: "noframes"},
	{tag: "xmp"},
	{tag: "plaintext"},
	{tag: "form", allowed: allowForms},
	{tag: "input", allowed: allowForms},
	{tag: "textarea", allowed: allowForms},
	{tag: "select", allowed: allowForms},
	{tag: "button", allowed: allowForms},
	{tag: "meta", match: func(n *html.Node) bool { return hasAttr(n, "http-equiv") }},
	{tag: "link", allowed: allowImports, match: isRemoteStylesheet},
}

// isRemoteStylesheet matches <link rel="stylesheet"> pointing at another
// origin.
func isRemoteStylesheet(n *html.Node) bool {
	for _, rel := range strings.Fields(strings.ToLower(attr(n, "rel"))) {
		if rel == "stylesheet" {
			return strings.Contains(attr(n, "href"), "://") || IsExternalURL(attr(n, "href"))
		}
	}
	return false
}

// DeniedTags lists every tag the markup sanitizer removes under policy p.
func DeniedTags(p Policy) []string {
	var tags []string
	for _, r := range deniedElements {
		if r.match != nil || (r.allowed != nil && r.allowed(p)) {
			continue
		}
		tags = append(tags, r.tag)
	}
	return tags
}

func deniedElement(n *html.Node, p Policy) bool {
	for _, r := range deniedElements {
		if n.Data != r.tag {
			continue
		}
		if r.allowed != nil && r.allowed(p) {
			continue
		}
		if r.match == nil || r.match(n) {
			return true
		}
	}
	return false
}

// dangerousSchemes are URL schemes stripped from URL-bearing attributes.
var dangerousSchemes = []string{"javascript:", "vbscript:", "data:text/html"}

// urlAttrs are the attributes whose values are fetched or navigated to.
// Their values are checked for dangerous schemes and, unless the policy
// allows it, external absolute URLs.
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"srcset":     true,
	"poster":     true,
	"data":       true,
	"background": true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
}

// linkAttrs are attributes whose absolute URLs navigate away from the page.
var linkAttrs = map[string]bool{
	"href":       true,
	"action":     true,
	"formaction": true,
}
