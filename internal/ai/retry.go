// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryBase is the first backoff delay; each further attempt doubles it.
var RetryBase = 2 * time.Second

// Retry calls fn up to attempts times with exponential backoff (2s, 4s,
// 8s...). Client errors (ErrClient) and unknown providers are returned
// immediately. Waiting stops when ctx is done.
func Retry(ctx context.Context, attempts int, fn func(ctx context.Context) (string, error)) (string, error) {
	if attempts < 1 {
		attempts = 1
	}

	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(RetryBase))

	var out string
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		text, err := fn(ctx)
		if err == nil {
			out = text
			return nil
		}
		if errors.Is(err, ErrClient) || errors.Is(err, ErrNoProvider) || ctx.Err() != nil {
			return err
		}
		slog.Warn("ai call failed", "attempt", attempt, "of", attempts, "error", err)
		return retry.RetryableError(err)
	})
	return out, err
}
