// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize turns untrusted model output into safe markup, stylesheet
// and script. Every sanitizer is a pure function of its input and a Policy;
// none of them returns an error. Deny lists are kept as data tables so they
// can be audited and reused by the validator.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// namedEntities is the fixed table of named references DecodeEntities
// understands. Anything else is left untouched.
var namedEntities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   `"`,
	"apos":   "'",
	"nbsp":   " ",
	"ndash":  "–",
	"mdash":  "—",
	"hellip": "…",
	"lsquo":  "‘",
	"rsquo":  "’",
	"ldquo":  "“",
	"rdquo":  "”",
	"laquo":  "«",
	"raquo":  "»",
	"copy":   "©",
	"reg":    "®",
	"trade":  "™",
	"bull":   "•",
	"middot": "·",
	"deg":    "°",
	"euro":   "€",
}

var entityRe = regexp.MustCompile(`&(#[0-9]{1,8}|#[xX][0-9a-fA-F]{1,8}|[a-zA-Z]{2,8});`)

// DecodeEntities replaces named and numeric character references with their
// characters in a single pass, so "&amp;lt;" becomes "&lt;" and not "<".
// Unknown names and invalid code points are left as written.
func DecodeEntities(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	return entityRe.ReplaceAllStringFunc(text, func(ref string) string {
		body := ref[1 : len(ref)-1]
		if body[0] != '#' {
			if s, ok := namedEntities[body]; ok {
				return s
			}
			return ref
		}

		var (
			n   uint64
			err error
		)
		if body[1] == 'x' || body[1] == 'X' {
			n, err = strconv.ParseUint(body[2:], 16, 32)
		} else {
			n, err = strconv.ParseUint(body[1:], 10, 32)
		}
		if err != nil || n == 0 {
			return ref
		}
		r := rune(n)
		if !utf8.ValidRune(r) {
			return ref
		}
		return string(r)
	})
}
