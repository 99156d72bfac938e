// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface over the LLM providers used to
// generate landing pages (OpenAI, Kimi, Gemini, Claude, Mistral). Each
// provider implements Provider, and the Registry selects the active one by
// name. When the active provider has no API key, the Registry answers with
// a canned mock page so development works offline.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrNoProvider is returned when the requested provider is not configured.
var ErrNoProvider = errors.New("ai: no provider configured")

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	// systemPrompt sets the model's behaviour; userPrompt is the user's request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// Options tunes a single generation call. Zero values leave the
// provider's defaults in place.
type Options struct {
	Provider    string // registered provider name; empty selects the active one
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// OptionsGenerator is implemented by providers that accept per-call
// sampling options.
type OptionsGenerator interface {
	GenerateWithOptions(ctx context.Context, opts Options, systemPrompt, userPrompt string) (string, error)
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// MockName is the registry name of the offline mock provider.
const MockName = "mock"

const defaultTimeout = 60 * time.Second

// Registry manages available AI providers and selects the active one.
// It supports runtime switching by changing the active provider name.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	models    map[string]string
	active    string
	moderator Moderator
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. The mock provider is always registered; it
// becomes active when the requested provider has no key.
//
// A Moderator is always configured: OpenAI's free moderation API is
// preferred, Mistral's endpoint is the fallback, and the local keyword
// filter is used when neither key exists.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		models:    make(map[string]string),
		active:    active,
	}

	r.providers[MockName] = newMock()
	r.models[MockName] = mockModel

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "kimi":
			if cfg.Model == "" {
				cfg.Model = kimiModel
			}
			r.providers[name] = newKimi(cfg)
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "mistral":
			r.providers[name] = newMistral(cfg)
		default:
			continue
		}
		r.models[name] = cfg.Model
	}

	if _, ok := r.providers[active]; !ok {
		slog.Warn("no API key for active ai provider, using mock responses", "provider", active)
		r.active = MockName
	}

	openaiCfg, hasOpenAI := configs["openai"]
	hasOpenAI = hasOpenAI && openaiCfg.APIKey != ""
	mistralCfg, hasMistral := configs["mistral"]
	hasMistral = hasMistral && mistralCfg.APIKey != ""

	switch {
	case hasOpenAI && hasMistral:
		r.moderator = newFallbackModerator(
			newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL),
			newMistralModerator(mistralCfg.APIKey, ""),
		)
	case hasOpenAI:
		r.moderator = newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL)
	case hasMistral:
		r.moderator = newMistralModerator(mistralCfg.APIKey, "")
	default:
		r.moderator = newKeywordModerator()
	}

	return r
}

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// GenerateWithOptions calls opts.Provider, or the active provider, with
// per-call options. Providers that do not accept options fall back to
// Generate.
func (r *Registry) GenerateWithOptions(ctx context.Context, opts Options, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Get(opts.Provider)
	if err != nil {
		return "", err
	}
	if g, ok := p.(OptionsGenerator); ok {
		return g.GenerateWithOptions(ctx, opts, systemPrompt, userPrompt)
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoProvider, r.active)
	}
	return p, nil
}

// Get returns the named provider, or the active one when name is empty.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		return r.Active()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoProvider, name)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("%w for %q (no API key?)", ErrNoProvider, name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// ActiveModel returns the default model of the active provider.
func (r *Registry) ActiveModel() string {
	return r.Model("")
}

// Model returns the default model of the named provider, or of the active
// one when name is empty.
func (r *Registry) Model(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.active
	}
	return r.models[name]
}

// Available returns the sorted names of all registered providers.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// CheckPrompt runs the user prompt through the moderator before
// generation. Returns a *ModerationResult with Safe=false and the flagged
// categories if the prompt violates policies.
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}

func clientTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}
