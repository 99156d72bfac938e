// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sanitize

import "strings"

const (
	scriptPrefix = "(function () {\n  'use strict';\n\n"
	scriptSuffix = "\n})();"
)

// Script rewrites dangerous calls in js under policy p and wraps the result
// in a strict-mode function so its declarations stay out of the global
// scope. Already wrapped input is unwrapped first, so Script is idempotent.
// An empty script stays empty.
func Script(js string, p Policy) string {
	body := unwrapScript(strings.TrimSpace(js))
	if body == "" {
		return ""
	}
	for _, r := range ScriptRules {
		if r.applies(p) {
			body = r.Pattern.ReplaceAllString(body, r.Replacement)
		}
	}
	for _, r := range scriptEscapes {
		body = r.Pattern.ReplaceAllString(body, r.Replacement)
	}
	return scriptPrefix + body + scriptSuffix
}

func unwrapScript(js string) string {
	for strings.HasPrefix(js, scriptPrefix) && strings.HasSuffix(js, scriptSuffix) &&
		len(js) >= len(scriptPrefix)+len(scriptSuffix) {
		js = strings.TrimSpace(js[len(scriptPrefix) : len(js)-len(scriptSuffix)])
	}
	return js
}
