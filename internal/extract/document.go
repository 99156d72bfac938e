// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// splitDocument moves the text of every inline <style> and <script> element
// of doc into the returned stylesheet and script, dropping those elements
// from the rendered markup. Scripts with a src attribute stay in place. ok is
// false when doc cannot be parsed or rendered.
func splitDocument(doc string) (markup, stylesheet, script string, ok bool) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", "", "", false
	}

	var styles, scripts []string
	var detached []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Style:
				if text := strings.TrimSpace(nodeText(n)); text != "" {
					styles = append(styles, text)
				}
				detached = append(detached, n)
				return
			case atom.Script:
				if hasAttr(n, "src") {
					return
				}
				if text := strings.TrimSpace(nodeText(n)); text != "" {
					scripts = append(scripts, text)
				}
				detached = append(detached, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, n := range detached {
		n.Parent.RemoveChild(n)
	}

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", "", "", false
	}
	return b.String(), strings.Join(styles, "\n"), strings.Join(scripts, "\n"), true
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}
