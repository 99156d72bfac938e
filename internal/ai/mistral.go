// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import "context"

const mistralBaseURL = "https://api.mistral.ai/v1"

// mistralProvider implements the Provider interface using Mistral's
// chat completions API, which is OpenAI-compatible.
type mistralProvider struct {
	inner *openAIProvider
}

// newMistral creates a new Mistral provider.
func newMistral(cfg ProviderConfig) *mistralProvider {
	return &mistralProvider{inner: newChatProvider("mistral", mistralBaseURL, cfg)}
}

func (p *mistralProvider) Name() string { return "mistral" }

// Generate sends a chat completion request to Mistral's API using the default model.
func (p *mistralProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.inner.GenerateWithOptions(ctx, Options{}, systemPrompt, userPrompt)
}

// GenerateWithOptions sends a chat completion request with sampling options.
func (p *mistralProvider) GenerateWithOptions(ctx context.Context, opts Options, systemPrompt, userPrompt string) (string, error) {
	return p.inner.GenerateWithOptions(ctx, opts, systemPrompt, userPrompt)
}
