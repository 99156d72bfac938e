// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"landingai/internal/models"
)

// envelopeKeys are the JSON keys holding the three payload parts.
var envelopeKeys = []string{"html", "css", "javascript", "js"}

// keyValueRes match the opening of each envelope key's string value.
var keyValueRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(envelopeKeys))
	for _, k := range envelopeKeys {
		m[k] = regexp.MustCompile(`"` + k + `"\s*:\s*"`)
	}
	return m
}()

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	valueTermRe     = regexp.MustCompile(`"\s*,\s*"(?:html|css|javascript|js)"\s*:`)
	documentStartRe = regexp.MustCompile(`(?i)<!doctype|<html[\s>]`)
	documentEndRe   = regexp.MustCompile(`(?i)</html\s*>`)
	wrappingFenceRe = regexp.MustCompile("(?s)^\\s*```(?i:json)?[ \\t]*\\n(.*?)\\n?\\s*```\\s*$")
)

// fromJSON finds a {...} span in text and decodes it as an envelope with
// html, css and javascript string fields. Malformed envelopes get two
// repair attempts. If no envelope decodes and the text carries a complete
// document outside any code fence, that document becomes the markup.
func fromJSON(text string) (result, bool) {
	text = unfence(text)
	candidates := objectCandidates(text)
	if len(candidates) == 0 {
		return result{}, false
	}

	for _, c := range candidates {
		if res, ok := decodeEnvelope(c); ok {
			return res, true
		}
	}
	for _, c := range candidates {
		if res, ok := decodeEnvelope(trailingCommaRe.ReplaceAllString(c, "$1")); ok {
			res.warnings = append(res.warnings, "repaired trailing commas in JSON envelope")
			return res, true
		}
	}
	for _, c := range candidates {
		repaired := trailingCommaRe.ReplaceAllString(repairValues(c), "$1")
		if res, ok := decodeEnvelope(repaired); ok {
			res.warnings = append(res.warnings, "repaired quoting in JSON envelope")
			return res, true
		}
	}

	if strings.Contains(text, "```") {
		return result{}, false
	}
	doc := fullDocument(text)
	if doc == "" {
		return result{}, false
	}
	res := result{
		markup:   doc,
		method:   models.ParseMethodDirectMarkup,
		warnings: []string{"JSON envelope unreadable; used the complete document found in the response"},
	}
	if markup, css, js, ok := splitDocument(doc); ok {
		res.markup, res.stylesheet, res.script = markup, css, js
	}
	return res, true
}

// unfence strips a json or unlabeled code fence wrapping the whole text.
func unfence(text string) string {
	if m := wrappingFenceRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// objectCandidates returns the balanced {...} span, honouring JSON string
// quoting, starting at each '{' that opens a JSON object, in order of
// appearance. The span from the first such '{' to the last '}' comes last
// when it differs from every balanced span.
func objectCandidates(text string) []string {
	var out []string
	seen := make(map[string]bool)
	first := -1
	for i := 0; i < len(text); i++ {
		if text[i] != '{' || !opensObject(text[i+1:]) {
			continue
		}
		if first < 0 {
			first = i
		}
		if span := balancedObject(text[i:]); span != "" && !seen[span] {
			seen[span] = true
			out = append(out, span)
		}
	}
	if first < 0 {
		return nil
	}
	if end := strings.LastIndexByte(text, '}'); end > first {
		if greedy := text[first : end+1]; !seen[greedy] {
			out = append(out, greedy)
		}
	}
	return out
}

// opensObject reports whether rest, the text after a '{', begins like a JSON
// object body. Stylesheet rules and prose placeholders do not.
func opensObject(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == '"' || rest[0] == '}')
}

func balancedObject(s string) string {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func decodeEnvelope(s string) (result, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return result{}, false
	}
	markup := stringField(fields, "html")
	if strings.TrimSpace(markup) == "" {
		return result{}, false
	}
	script := stringField(fields, "javascript")
	if script == "" {
		script = stringField(fields, "js")
	}
	return result{
		markup:     markup,
		stylesheet: stringField(fields, "css"),
		script:     script,
		method:     models.ParseMethodJSON,
	}, true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// repairValues re-encodes the string value of each envelope key. A value
// runs from its opening quote to the quote that precedes the next envelope
// key or, for the last value, the closing brace. Whatever lies between is
// loosely unescaped and encoded again, which fixes unescaped and doubly
// escaped quotes inside embedded markup.
func repairValues(s string) string {
	for _, key := range envelopeKeys {
		loc := keyValueRes[key].FindStringIndex(s)
		if loc == nil {
			continue
		}
		valueStart := loc[1]

		valueEnd := -1
		if m := valueTermRe.FindStringIndex(s[valueStart:]); m != nil {
			valueEnd = valueStart + m[0]
		} else if brace := strings.LastIndexByte(s, '}'); brace > valueStart {
			valueEnd = strings.LastIndexByte(s[:brace], '"')
		}
		if valueEnd < valueStart {
			continue
		}

		encoded, err := json.Marshal(looseUnescape(s[valueStart:valueEnd]))
		if err != nil {
			continue
		}
		s = s[:valueStart-1] + string(encoded) + s[valueEnd+1:]
	}
	return s
}

// looseUnescape resolves JSON-style escapes, treating a doubled backslash
// before a quote or control letter as a single escape.
func looseUnescape(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		next := raw[i]
		if next == '\\' && i+1 < len(raw) && strings.IndexByte(`"nrt/`, raw[i+1]) >= 0 {
			i++
			next = raw[i]
		}
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"', '\'', '/', '\\':
			b.WriteByte(next)
		case 'u':
			if i+4 < len(raw) {
				if n, err := strconv.ParseUint(raw[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(n))
					i += 4
					continue
				}
			}
			b.WriteString(`\u`)
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
		}
	}
	return b.String()
}

// fullDocument returns the span from a doctype or <html> tag to the last
// </html>, unescaping it when it still carries JSON string escapes.
func fullDocument(text string) string {
	start := documentStartRe.FindStringIndex(text)
	if start == nil {
		return ""
	}
	ends := documentEndRe.FindAllStringIndex(text[start[0]:], -1)
	if len(ends) == 0 {
		return ""
	}
	doc := text[start[0] : start[0]+ends[len(ends)-1][1]]
	if strings.Contains(doc, `\"`) || strings.Contains(doc, `\n`) {
		doc = looseUnescape(doc)
	}
	return doc
}
