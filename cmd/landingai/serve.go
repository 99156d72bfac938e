// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"landingai/internal/ai"
	"landingai/internal/cache"
	"landingai/internal/config"
	"landingai/internal/database"
	"landingai/internal/engine"
	"landingai/internal/handlers"
	"landingai/internal/metrics"
	"landingai/internal/middleware"
	"landingai/internal/pipeline"
	"landingai/internal/router"
	"landingai/internal/storage"
	"landingai/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the landing page API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	policy, err := cfg.SanitizePolicy()
	if err != nil {
		return err
	}

	// PostgreSQL with embedded migrations.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	health := map[string]handlers.Check{"database": db.PingContext}

	// Valkey is optional; without it previews are cached per instance only.
	var shared engine.Shared
	if addr := cfg.ValkeyAddr(); addr != "" {
		client, err := cache.ConnectValkey(ctx, addr, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, shared preview cache disabled", "addr", addr, "error", err)
		} else {
			defer client.Close()
			shared = cache.NewPreviewCache(client, cfg.PreviewCacheTTL)
			health["cache"] = pingValkey(client)
			slog.Info("valkey connected", "addr", addr)
		}
	}

	providers := make(map[string]ai.ProviderConfig, len(cfg.AIProviders))
	for name, p := range cfg.AIProviders {
		providers[name] = ai.ProviderConfig{
			APIKey:  p.APIKey,
			Model:   p.Model,
			BaseURL: p.BaseURL,
			Timeout: cfg.AIRequestTimeout,
		}
	}
	registry := ai.NewRegistry(cfg.AIProvider, providers)
	slog.Info("ai providers initialized", "active", registry.ActiveName(), "available", registry.Available())

	m := metrics.New()
	pipe := pipeline.New(policy, pipeline.WithRecorder(m))

	deps := handlers.Deps{
		Store:    store.NewLandingPageStore(db),
		AI:       registry,
		Pipeline: pipe,
		Engine:   engine.New(shared),
		CacheLog: store.NewCacheLogStore(db),
		Observer: m,
		Timeout:  cfg.AIRequestTimeout,
		Retries:  cfg.AIMaxRetries,
	}

	publisher, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	switch {
	case err != nil:
		return fmt.Errorf("initialize storage: %w", err)
	case publisher == nil:
		slog.Warn("s3 storage not configured, publishing disabled")
	default:
		deps.Publisher = publisher
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst, time.Minute)
	defer limiter.Stop()

	handler := router.New(router.Config{
		JWTSecret:   []byte(cfg.JWTSecret),
		CORSOrigins: cfg.CORSOrigins,
		HSTS:        !cfg.IsDev(),
		Limiter:     limiter,
		Metrics:     m,
		Health:      health,
	}, handlers.NewLandingPages(deps))

	// WriteTimeout must cover every AI attempt plus backoff.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg.AIRequestTimeout, cfg.AIMaxRetries),
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func pingValkey(client *redis.Client) handlers.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// writeTimeout allows every attempt to run to its timeout, plus the
// doubling backoff between attempts and a margin for the rest of the
// request.
func writeTimeout(perCall time.Duration, attempts int) time.Duration {
	total := 10 * time.Second
	backoff := ai.RetryBase
	for i := 0; i < attempts; i++ {
		total += perCall
		if i > 0 {
			total += backoff
			backoff *= 2
		}
	}
	return total
}
