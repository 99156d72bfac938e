// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sanitize

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FallbackDocument is returned by Markup when the input cannot be parsed or
// serialized.
const FallbackDocument = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Generated Landing Page</title>
</head>
<body>
<p>Content could not be safely processed.</p>
</body>
</html>`

const (
	defaultTitle    = "Generated Landing Page"
	defaultViewport = "width=device-width, initial-scale=1.0"
	defaultLang     = "en"
)

var errNoRoot = errors.New("no html element in parsed document")

// Markup parses markup leniently, removes denied elements, event handler
// attributes and dangerous URLs, cleans inline styles, and guarantees a
// complete document with charset, viewport and title. The result is a fixed
// point: sanitizing it again yields the same document.
func Markup(markup string, p Policy) string {
	out, err := sanitizeMarkup(markup, p)
	if err != nil {
		slog.Warn("markup sanitization failed, using fallback", "error", err)
		return FallbackDocument
	}
	return out
}

func sanitizeMarkup(markup string, p Policy) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sanitizer panic: %v", r)
		}
	}()

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing markup: %w", err)
	}

	scrub(doc, p)

	root := findElement(doc, atom.Html)
	if root == nil {
		return "", errNoRoot
	}
	if !hasAttr(root, "lang") {
		root.Attr = append(root.Attr, html.Attribute{Key: "lang", Val: defaultLang})
	}
	head := findElement(root, atom.Head)
	if head == nil {
		head = &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
		root.InsertBefore(head, root.FirstChild)
	}
	ensureMeta(doc, head)
	fixDoctype(doc, markup, p)

	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", fmt.Errorf("rendering markup: %w", err)
	}
	return b.String(), nil
}

// scrub walks the children of n, dropping comments and denied elements and
// cleaning attributes and raw text of the rest.
func scrub(n *html.Node, p Policy) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode:
			n.RemoveChild(c)
		case html.ElementNode:
			if deniedElement(c, p) {
				n.RemoveChild(c)
				break
			}
			scrubAttributes(c, p)
			switch {
			case c.Data == "style":
				replaceText(c, stripStyle(textContent(c), p, removedMarker))
			case c.Data == "script":
				replaceText(c, Script(textContent(c), p))
			default:
				scrub(c, p)
			}
		}
		c = next
	}
}

func scrubAttributes(n *html.Node, p Policy) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if key == "style" {
			a.Val = InlineStyle(a.Val)
			if a.Val == "" {
				continue
			}
		}
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		if urlAttrs[key] {
			if hasDangerousScheme(a.Val) {
				continue
			}
			if !allowExternalLinks(p) && referencesExternal(key, a.Val) {
				continue
			}
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func hasDangerousScheme(v string) bool {
	u := normalizeURL(v)
	for _, s := range dangerousSchemes {
		if strings.HasPrefix(u, s) {
			return true
		}
	}
	return false
}

// referencesExternal reports whether the value of attribute key points at
// an external URL. srcset holds a comma separated list of candidates.
func referencesExternal(key, v string) bool {
	if key != "srcset" {
		return IsExternalURL(v)
	}
	for _, candidate := range strings.Split(v, ",") {
		if fields := strings.Fields(candidate); len(fields) > 0 && IsExternalURL(fields[0]) {
			return true
		}
	}
	return false
}

// IsExternalURL reports whether v is an absolute http(s) or
// protocol-relative URL.
func IsExternalURL(v string) bool {
	u := normalizeURL(v)
	return strings.HasPrefix(u, "http:") || strings.HasPrefix(u, "https:") || strings.HasPrefix(u, "//")
}

// normalizeURL lowercases v and drops the whitespace and control characters
// browsers ignore inside a URL scheme.
func normalizeURL(v string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, v)
}

func ensureMeta(doc, head *html.Node) {
	var hasCharset, hasViewport, hasTitle bool
	walk(doc, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Meta:
			if hasAttr(n, "charset") {
				hasCharset = true
			}
			if strings.EqualFold(attr(n, "name"), "viewport") {
				hasViewport = true
			}
		case atom.Title:
			if n.Namespace == "" {
				hasTitle = true
			}
		}
	})

	if !hasCharset {
		head.InsertBefore(&html.Node{
			Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta,
			Attr: []html.Attribute{{Key: "charset", Val: "UTF-8"}},
		}, head.FirstChild)
	}
	if !hasViewport {
		head.AppendChild(&html.Node{
			Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta,
			Attr: []html.Attribute{{Key: "name", Val: "viewport"}, {Key: "content", Val: defaultViewport}},
		})
	}
	if !hasTitle {
		title := &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		title.AppendChild(&html.Node{Type: html.TextNode, Data: defaultTitle})
		head.AppendChild(title)
	}
}

// fixDoctype keeps the doctype when the input began with one and the policy
// preserves it, and drops it otherwise.
func fixDoctype(doc *html.Node, markup string, p Policy) {
	var dt *html.Node
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			dt = c
			break
		}
	}
	switch {
	case !p.PreserveDoctype:
		if dt != nil {
			doc.RemoveChild(dt)
		}
	case dt == nil && startsWithDoctype(markup):
		doc.InsertBefore(&html.Node{Type: html.DoctypeNode, Data: "html"}, doc.FirstChild)
	}
}

func startsWithDoctype(markup string) bool {
	s := strings.TrimLeft(markup, " \t\r\n\ufeff")
	return len(s) >= 9 && strings.EqualFold(s[:9], "<!doctype")
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func replaceText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
