// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt validates landing page generation requests and turns the
// user's text into the prompt sent to the AI provider.
package prompt

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/microcosm-cc/bluemonday"
)

// Sampling defaults applied when a request leaves them unset.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
	DefaultTopP        = 0.9
)

const (
	defaultTitle  = "Generated Landing Page"
	titleWords    = 6
	maxTitleRunes = 50
)

// ErrEmptyPrompt is returned when nothing is left of the prompt after
// sanitization.
var ErrEmptyPrompt = errors.New("prompt cannot be empty after sanitization")

// Styles lists the accepted design styles.
var Styles = []any{"modern", "classic", "minimal", "creative"}

// Providers lists the provider names a request may ask for.
var Providers = []any{"kimi", "gemini", "openai", "claude", "mistral", "mock"}

// Options are the optional generation settings of a Request.
type Options struct {
	Temperature    float64 `json:"temperature,omitempty"`
	MaxTokens      int     `json:"maxTokens,omitempty"`
	TopP           float64 `json:"topP,omitempty"`
	Style          string  `json:"style,omitempty"`
	Industry       string  `json:"industry,omitempty"`
	TargetAudience string  `json:"targetAudience,omitempty"`
	Provider       string  `json:"model,omitempty"`
}

// Validate implements validation.Validatable.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&o.MaxTokens, validation.Min(100), validation.Max(8000)),
		validation.Field(&o.TopP, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&o.Style, validation.In(Styles...)),
		validation.Field(&o.Industry, validation.RuneLength(0, 50)),
		validation.Field(&o.TargetAudience, validation.RuneLength(0, 100)),
		validation.Field(&o.Provider, validation.In(Providers...)),
	)
}

// Request is the body of a generation call.
type Request struct {
	Prompt  string  `json:"prompt"`
	Title   string  `json:"title,omitempty"`
	Options Options `json:"options"`
}

// Validate implements validation.Validatable.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt, validation.Required, validation.RuneLength(10, 2000)),
		validation.Field(&r.Title, validation.RuneLength(3, 100)),
		validation.Field(&r.Options),
	)
}

// FieldError is one failed rule, addressed by its JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Details flattens a validation error into per-field messages sorted by
// path. Non-validation errors yield nil.
func Details(err error) []FieldError {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	var out []FieldError
	flatten("", errs, &out)
	return out
}

func flatten(prefix string, errs validation.Errors, out *[]FieldError) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		var nested validation.Errors
		if errors.As(errs[k], &nested) {
			flatten(path, nested, out)
			continue
		}
		*out = append(*out, FieldError{Field: path, Message: errs[k].Error()})
	}
}

// Processed is a validated request ready for generation.
type Processed struct {
	Original     string
	Enhanced     string
	Title        string
	Options      Options
	Keywords     []string
	Language     string
	PromptLength int
}

// Process validates req, enhances its prompt and fills in defaults.
func Process(req Request) (*Processed, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	enhanced, err := Enhance(req.Prompt, req.Options)
	if err != nil {
		return nil, err
	}

	opts := req.Options
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.TopP == 0 {
		opts.TopP = DefaultTopP
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = TitleFromPrompt(req.Prompt)
	}

	return &Processed{
		Original:     req.Prompt,
		Enhanced:     enhanced,
		Title:        title,
		Options:      opts,
		Keywords:     Keywords(req.Prompt),
		Language:     DetectLanguage(req.Prompt),
		PromptLength: utf8.RuneCountInString(req.Prompt),
	}, nil
}

var (
	stripPolicy   = bluemonday.StrictPolicy()
	jsSchemeRe    = regexp.MustCompile(`(?i)javascript\s*:`)
	handlerAttrRe = regexp.MustCompile(`(?i)on\w+\s*=`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// Sanitize strips markup, script URLs and handler assignments from a
// prompt and collapses whitespace.
func Sanitize(text string) string {
	cleaned := html.UnescapeString(stripPolicy.Sanitize(text))
	cleaned = jsSchemeRe.ReplaceAllString(cleaned, "")
	cleaned = handlerAttrRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(cleaned, " "))
}

const requirements = `

Specific Requirements:
- Make it conversion-focused with clear call-to-action buttons
- Ensure mobile-first responsive design
- Include modern animations and micro-interactions
- Use professional color schemes and typography
- Add social proof elements if relevant
- Optimize for fast loading and good SEO
- Include contact forms or lead capture if appropriate`

// Enhance wraps the sanitized prompt with the style, industry and audience
// context and the fixed list of page requirements.
func Enhance(text string, opts Options) (string, error) {
	sanitized := Sanitize(text)
	if sanitized == "" {
		return "", ErrEmptyPrompt
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a landing page for: %s", sanitized)
	if opts.Style != "" {
		fmt.Fprintf(&b, "\n\nDesign Style: %s", opts.Style)
	}
	if opts.Industry != "" {
		fmt.Fprintf(&b, "\n\nIndustry: %s", Sanitize(opts.Industry))
	}
	if opts.TargetAudience != "" {
		fmt.Fprintf(&b, "\n\nTarget Audience: %s", Sanitize(opts.TargetAudience))
	}
	b.WriteString(requirements)
	return b.String(), nil
}

var businessKeywords = []string{
	"restaurant", "food", "cafe", "coffee", "hotel", "travel", "tourism",
	"fitness", "gym", "health", "medical", "doctor", "clinic",
	"education", "school", "course", "training", "learning",
	"technology", "software", "app", "saas", "startup",
	"ecommerce", "shop", "store", "product", "service",
	"consulting", "agency", "marketing", "design", "creative",
	"real estate", "property", "construction", "architecture",
	"finance", "banking", "investment", "insurance",
	"automotive", "car", "vehicle", "repair", "maintenance",
	"beauty", "salon", "spa", "wellness", "cosmetics",
}

// Keywords returns the business keywords contained in text, in list order.
// Matching is by substring, so "cafeteria" yields "cafe".
func Keywords(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, kw := range businessKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

var (
	turkishChars = regexp.MustCompile(`[çğıöşüÇĞİÖŞÜ]`)
	turkishWords = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(ve|bir|bu|için|ile|olan|değil|çok|daha|en|her|kendi|sonra|kadar|ancak|böyle|şey|zaman|yer|kişi|gün|yıl|el|göz|baş|iş|ev|su|kan|yol|para|halk|devlet|millet|ülke|dünya)(?:$|[^\p{L}])`)
)

// DetectLanguage returns "tr" for text with Turkish letters or common
// Turkish words and "en" otherwise.
func DetectLanguage(text string) string {
	if turkishChars.MatchString(text) || turkishWords.MatchString(text) {
		return "tr"
	}
	return "en"
}

// TitleFromPrompt builds a title from the first six words of text,
// capitalised and cut to 50 characters.
func TitleFromPrompt(text string) string {
	words := strings.Fields(text)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	title := strings.Join(words, " ")
	if title == "" {
		return defaultTitle
	}

	r, size := utf8.DecodeRuneInString(title)
	title = string(unicode.ToUpper(r)) + title[size:]

	if utf8.RuneCountInString(title) > maxTitleRunes {
		title = string([]rune(title)[:maxTitleRunes-3]) + "..."
	}
	return title
}
