// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// PreviewCSP is the Content-Security-Policy sent with composed previews.
// Inline style and script are the page's own sanitized parts; everything
// else is limited to https.
const PreviewCSP = "default-src 'none'; style-src 'unsafe-inline' https:; script-src 'unsafe-inline'; " +
	"img-src https: data:; font-src https: data:; connect-src 'none'; form-action https:; " +
	"frame-ancestors *; base-uri 'none'"

// SecureHeaders adds security-related HTTP headers to every response. hsts
// enables Strict-Transport-Security and should only be set behind TLS.
func SecureHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Cache-Control", "no-store")
			if hsts {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AllowFraming marks a response as embeddable and sandboxed by
// PreviewCSP. Preview handlers call it before writing.
func AllowFraming(w http.ResponseWriter) {
	h := w.Header()
	h.Del("X-Frame-Options")
	h.Set("Content-Security-Policy", PreviewCSP)
}
