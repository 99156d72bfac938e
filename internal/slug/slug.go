// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds URL-friendly slugs and the object keys under which
// published landing pages are stored.
package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxLength caps a generated slug. Longer slugs are cut at a hyphen.
const MaxLength = 60

// fallback names pages whose title has no usable characters.
const fallback = "page"

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	separators      = regexp.MustCompile(`[\s-]+`)

	transliterate = strings.NewReplacer(
		"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
		"Ç", "c", "Ğ", "g", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u",
		"á", "a", "à", "a", "â", "a", "ä", "a", "é", "e", "è", "e", "ê", "e",
		"í", "i", "î", "i", "ó", "o", "ô", "o", "ú", "u", "û", "u", "ñ", "n", "ß", "ss",
	)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Kahve Dükkanı 2026" → "kahve-dukkani-2026"
func Generate(s string) string {
	result := transliterate.Replace(strings.TrimSpace(s))
	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = result[:MaxLength]
		if i := strings.LastIndexByte(result, '-'); i > 0 {
			result = result[:i]
		}
	}
	return result
}

// ObjectKey returns the storage key of a published page. The ID prefix
// keeps keys unique when titles collide.
func ObjectKey(title string, id uuid.UUID) string {
	s := Generate(title)
	if s == "" {
		s = fallback
	}
	return "pages/" + s + "-" + id.String()[:8] + "/index.html"
}
