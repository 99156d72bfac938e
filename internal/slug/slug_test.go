package slug

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "ampersand and at sign", input: "Rock & Roll @ the Arena", want: "rock-roll-the-arena"},
		{name: "version number", input: "Version 2.0.1", want: "version-201"},
		{name: "turkish letters", input: "Kahve Dükkanı İstanbul", want: "kahve-dukkani-istanbul"},
		{name: "turkish lowercase", input: "şirket çözümleri ğ", want: "sirket-cozumleri-g"},
		{name: "accents", input: "Café Résumé", want: "cafe-resume"},
		{name: "german sharp s", input: "Straße", want: "strasse"},
		{name: "emoji stripped", input: "Launch 🚀 Day", want: "launch-day"},
		{name: "tabs and newlines", input: "hello\tworld\nagain", want: "hello-world-again"},
		{name: "hyphens and spaces mixed", input: "  --hello -- world--  ", want: "hello-world"},
		{name: "date-like string", input: "2026-02-25", want: "2026-02-25"},
		{name: "empty string", input: "", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{
			name:  "long title cut at hyphen",
			input: "This is a very long landing page title that goes on and on for quite a while",
			want:  "this-is-a-very-long-landing-page-title-that-goes-on-and-on",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) > MaxLength {
				t.Errorf("Generate(%q) length %d exceeds %d", tt.input, len(got), MaxLength)
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "kahve-dukkani", "a-b-c", "2026"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
		}
	}
}

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000000")

	tests := []struct {
		title string
		want  string
	}{
		{"Coffee Shop", "pages/coffee-shop-3f2a9c1e/index.html"},
		{"!!!", "pages/page-3f2a9c1e/index.html"},
		{"", "pages/page-3f2a9c1e/index.html"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.title, id); got != tt.want {
			t.Errorf("ObjectKey(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}

	if a, b := ObjectKey("Same", uuid.New()), ObjectKey("Same", uuid.New()); a == b || !strings.HasPrefix(a, "pages/same-") {
		t.Errorf("keys for distinct pages should differ: %q %q", a, b)
	}
}
