// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	kimiBaseURL   = "https://api.moonshot.ai/v1"
	kimiModel     = "moonshot-v1-8k"
)

// openAIProvider implements the Provider interface using the OpenAI
// chat completions API (POST /chat/completions). The same wire format
// serves Kimi (Moonshot) and Mistral under a different name and base URL.
type openAIProvider struct {
	name   string
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	return newChatProvider("openai", openAIBaseURL, cfg)
}

// newKimi creates a Kimi provider on Moonshot's OpenAI-compatible API.
func newKimi(cfg ProviderConfig) *openAIProvider {
	if cfg.Model == "" {
		cfg.Model = kimiModel
	}
	return newChatProvider("kimi", kimiBaseURL, cfg)
}

func newChatProvider(name, baseURL string, cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURL
	}
	return &openAIProvider{
		name:   name,
		config: cfg,
		client: &http.Client{Timeout: clientTimeout(cfg.Timeout)},
	}
}

func (p *openAIProvider) Name() string { return p.name }

// Generate sends a chat completion request and returns the assistant's
// response text.
func (p *openAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.GenerateWithOptions(ctx, Options{}, systemPrompt, userPrompt)
}

// GenerateWithOptions sends a chat completion request with the given
// sampling options. An empty opts.Model selects the configured model.
func (p *openAIProvider) GenerateWithOptions(ctx context.Context, opts Options, systemPrompt, userPrompt string) (string, error) {
	model := opts.Model
	if model == "" {
		model = p.config.Model
	}

	body := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		TopP:        opts.TopP,
	}

	return p.doChat(ctx, body)
}

// doChat performs the HTTP call to the chat completions endpoint.
func (p *openAIProvider) doChat(ctx context.Context, body openAIRequest) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + p.config.APIKey}

	var result openAIResponse
	if err := postJSON(ctx, p.client, p.name, p.config.BaseURL+"/chat/completions", headers, body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}

	return result.Choices[0].Message.Content, nil
}

// --- OpenAI-compatible request/response types ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	TopP        float64         `json:"top_p,omitempty"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}
