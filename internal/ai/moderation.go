// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the prompt passes moderation
	Categories []string // list of flagged category names (empty when safe)
}

// Moderator checks user prompts for policy violations before sending
// them to AI generation endpoints.
type Moderator interface {
	// CheckSafety evaluates a text prompt and returns whether it is safe
	// to send to an AI provider. If not safe, Categories lists the reasons.
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// --- OpenAI Moderation (free endpoint) ---

// openAIModerator uses the OpenAI Moderation API (POST /v1/moderations)
// which is free for all OpenAI API key holders.
type openAIModerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// newOpenAIModerator creates a moderator that uses OpenAI's free moderation API.
func newOpenAIModerator(apiKey, baseURL string) *openAIModerator {
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	return &openAIModerator{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *openAIModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	body := moderationRequest{
		Model: "omni-moderation-latest",
		Input: text,
	}
	headers := map[string]string{"Authorization": "Bearer " + m.apiKey}

	var result openAIModResponse
	if err := postJSON(ctx, m.client, "moderation", m.baseURL+"/moderations", headers, body, &result); err != nil {
		return nil, err
	}

	if len(result.Results) == 0 || !result.Results[0].Flagged {
		return &ModerationResult{Safe: true}, nil
	}

	// Convert "hate/threatening" to "hate (threatening)" for readability.
	var flagged []string
	for cat, isFlagged := range result.Results[0].Categories {
		if !isFlagged {
			continue
		}
		display := cat
		if strings.Contains(cat, "/") {
			display = strings.ReplaceAll(cat, "/", " (") + ")"
		}
		flagged = append(flagged, strings.ReplaceAll(display, "_", " "))
	}
	sort.Strings(flagged)

	return &ModerationResult{Safe: false, Categories: flagged}, nil
}

// --- Mistral Moderation (paid, fallback) ---

// mistralModerator uses the Mistral Moderation API (POST /v1/moderations).
type mistralModerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// newMistralModerator creates a moderator using Mistral's classification endpoint.
func newMistralModerator(apiKey, baseURL string) *mistralModerator {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	return &mistralModerator{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *mistralModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	body := moderationRequest{
		Model: "mistral-moderation-latest",
		Input: text,
	}
	headers := map[string]string{"Authorization": "Bearer " + m.apiKey}

	var result mistralModResponse
	if err := postJSON(ctx, m.client, "mistral moderation", m.baseURL+"/v1/moderations", headers, body, &result); err != nil {
		return nil, err
	}

	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	// Mistral has no top-level "flagged"; check each category.
	var flagged []string
	for cat, isFlagged := range result.Results[0].Categories {
		if isFlagged {
			flagged = append(flagged, strings.ReplaceAll(cat, "_", " "))
		}
	}
	sort.Strings(flagged)

	return &ModerationResult{Safe: len(flagged) == 0, Categories: flagged}, nil
}

// --- Fallback chain ---

// fallbackModerator asks primary first and secondary when primary fails,
// e.g. on project-scoped OpenAI keys that cannot reach /moderations.
type fallbackModerator struct {
	primary   Moderator
	secondary Moderator
}

func newFallbackModerator(primary, secondary Moderator) *fallbackModerator {
	return &fallbackModerator{primary: primary, secondary: secondary}
}

func (m *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	res, err := m.primary.CheckSafety(ctx, text)
	if err == nil {
		return res, nil
	}
	slog.Warn("primary moderation failed, trying fallback", "error", err)
	return m.secondary.CheckSafety(ctx, text)
}

// --- Local keyword filter ---

type keywordRule struct {
	category string
	re       *regexp.Regexp
}

// keywordRules is the content policy applied when no moderation API is
// configured.
var keywordRules = []keywordRule{
	{"illicit", regexp.MustCompile(`(?i)\b(hack|crack|pirate|illegal|fraud|scam)\b`)},
	{"sexual", regexp.MustCompile(`(?i)\b(adult|porn|sex|nude|explicit)\b`)},
	{"violence", regexp.MustCompile(`(?i)\b(violence|weapon|bomb|kill|murder)\b`)},
	{"drugs", regexp.MustCompile(`(?i)\b(drug|cocaine|heroin|marijuana)\b`)},
}

// keywordModerator flags prompts matching keywordRules. It never errors.
type keywordModerator struct{}

func newKeywordModerator() *keywordModerator { return &keywordModerator{} }

func (m *keywordModerator) CheckSafety(_ context.Context, text string) (*ModerationResult, error) {
	var flagged []string
	for _, rule := range keywordRules {
		if rule.re.MatchString(text) {
			flagged = append(flagged, rule.category)
		}
	}
	return &ModerationResult{Safe: len(flagged) == 0, Categories: flagged}, nil
}

// --- Request/Response types ---

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIModResponse struct {
	Results []openAIModResult `json:"results"`
}

type openAIModResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}

type mistralModResponse struct {
	Results []mistralModResult `json:"results"`
}

type mistralModResult struct {
	Categories map[string]bool `json:"categories"`
}
