// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"landingai/internal/models"
)

const (
	defaultTitle   = "Generated Landing Page"
	maxTitleRunes  = 80
	synthesizedDoc = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<div class="container">
<h1>%s</h1>
<div class="content">%s</div>
</div>
</body>
</html>`

	basicStylesheet = `* {
  margin: 0;
  padding: 0;
  box-sizing: border-box;
}

body {
  font-family: Arial, sans-serif;
  line-height: 1.6;
  color: #333;
}

.container {
  max-width: 1200px;
  margin: 0 auto;
  padding: 20px;
}

h1 {
  margin-bottom: 20px;
}

.content {
  white-space: pre-wrap;
}

@media (max-width: 768px) {
  .container {
    padding: 10px;
  }
}`
)

// titlePolicy strips every tag from the first line before it becomes the
// page title.
var titlePolicy = bluemonday.StrictPolicy()

// synthesize wraps text in a minimal page: the first non-empty line becomes
// the title and the whole text is shown escaped in the body.
func synthesize(text string) result {
	text = strings.TrimSpace(text)
	title := titleFromText(text)
	return result{
		markup:     fmt.Sprintf(synthesizedDoc, title, title, html.EscapeString(text)),
		stylesheet: basicStylesheet,
		method:     models.ParseMethodGenerated,
		warnings:   []string{"no structured content found; generated a basic page from the text"},
	}
}

func titleFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#* \t"))
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxTitleRunes {
			line = string([]rune(line)[:maxTitleRunes])
		}
		if title := strings.TrimSpace(titlePolicy.Sanitize(line)); title != "" {
			return title
		}
	}
	return defaultTitle
}
