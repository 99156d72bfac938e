// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     testAddr(),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, previewKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func testAddr() string {
	return envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(context.Background(), testAddr(), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := ConnectValkey(ctx, "127.0.0.1:1", ""); err == nil {
		t.Error("expected error for unreachable address")
	}
}

func TestPreviewCacheSetAndGet(t *testing.T) {
	pc := NewPreviewCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	data, ok := pc.Get(ctx, "page-1")
	if ok || data != nil {
		t.Errorf("expected miss, got %q, %v", data, ok)
	}

	html := []byte("<!DOCTYPE html><html><body>Preview</body></html>")
	pc.Set(ctx, "page-1", html)

	data, ok = pc.Get(ctx, "page-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}
}

func TestPreviewCacheInvalidate(t *testing.T) {
	pc := NewPreviewCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "invalidate-me", []byte("cached"))
	if _, ok := pc.Get(ctx, "invalidate-me"); !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	pc.Invalidate(ctx, "invalidate-me")

	if _, ok := pc.Get(ctx, "invalidate-me"); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestPreviewCacheInvalidateAll(t *testing.T) {
	pc := NewPreviewCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		pc.Set(ctx, key, []byte(key))
	}

	pc.InvalidateAll(ctx)

	for _, key := range []string{"a", "b", "c"} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestPreviewCacheExpires(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPreviewCache(client, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "ttl", []byte("x"))
	ttl, err := client.TTL(ctx, previewKeyPrefix+"ttl").Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL: got %v, want (0, 1m]", ttl)
	}
}

func TestNewPreviewCacheDefaultTTL(t *testing.T) {
	pc := NewPreviewCache(nil, 0)
	if pc.ttl != DefaultPreviewTTL {
		t.Errorf("expected DefaultPreviewTTL (%v), got %v", DefaultPreviewTTL, pc.ttl)
	}
}
