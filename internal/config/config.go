// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct that main resolves once
// and passes down explicitly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"landingai/internal/sanitize"
)

// ProviderNames lists the AI providers that read their settings from the
// environment, in the order they are documented.
var ProviderNames = []string{"openai", "kimi", "gemini", "claude", "mistral"}

// Provider holds the settings of one AI provider.
type Provider struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). An empty host disables the shared
	// preview cache.
	ValkeyHost      string
	ValkeyPort      string
	ValkeyPassword  string
	PreviewCacheTTL time.Duration

	// AI provider settings
	AIProvider       string
	AIProviders      map[string]Provider
	AIRequestTimeout time.Duration
	AIMaxRetries     int

	// HTTP surface
	JWTSecret      string
	CORSOrigins    []string
	RateLimit      int
	RateLimitBurst int

	// S3-compatible storage for published pages (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// SanitizePolicyFile is an optional YAML file overriding the landing
	// page sanitization policy.
	SanitizePolicyFile string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; real environment variables take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "landingai"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "landingai"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:  strings.ToLower(envOrDefault("AI_PROVIDER", "gemini")),
		AIProviders: make(map[string]Provider, len(ProviderNames)),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000")),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "landingai-pages"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		SanitizePolicyFile: os.Getenv("SANITIZE_POLICY_FILE"),
	}

	for _, name := range ProviderNames {
		prefix := strings.ToUpper(name) + "_"
		cfg.AIProviders[name] = Provider{
			APIKey:  os.Getenv(prefix + "API_KEY"),
			Model:   envOrDefault(prefix+"MODEL", defaultModels[name]),
			BaseURL: os.Getenv(prefix + "BASE_URL"),
		}
	}

	var err error
	if cfg.AIRequestTimeout, err = envMillis("AI_REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.AIMaxRetries, err = envInt("AI_MAX_RETRIES", 3); err != nil {
		return nil, err
	}
	if cfg.PreviewCacheTTL, err = envSeconds("PREVIEW_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = envInt("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = envInt("RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.AIMaxRetries < 1 {
		return nil, fmt.Errorf("AI_MAX_RETRIES must be at least 1, got %d", cfg.AIMaxRetries)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, using an insecure development secret")
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

const devJWTSecret = "landingai-development-secret"

var defaultModels = map[string]string{
	"openai":  "gpt-4o",
	"kimi":    "moonshot-v1-8k",
	"gemini":  "gemini-1.5-flash-latest",
	"claude":  "claude-sonnet-4-6",
	"mistral": "mistral-large-latest",
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address, or "" when the cache is disabled.
func (c *Config) ValkeyAddr() string {
	if c.ValkeyHost == "" {
		return ""
	}
	return c.ValkeyHost + ":" + c.ValkeyPort
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SanitizePolicy returns the landing page policy with SanitizePolicyFile
// applied on top.
func (c *Config) SanitizePolicy() (sanitize.Policy, error) {
	return sanitize.LoadPolicyFile(c.SanitizePolicyFile, sanitize.LandingPagePolicy())
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// envMillis reads a duration given in milliseconds.
func envMillis(key string, fallback time.Duration) (time.Duration, error) {
	n, err := envInt(key, int(fallback/time.Millisecond))
	return time.Duration(n) * time.Millisecond, err
}

func envSeconds(key string, fallback time.Duration) (time.Duration, error) {
	n, err := envInt(key, int(fallback/time.Second))
	return time.Duration(n) * time.Second, err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
