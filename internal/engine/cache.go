// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go provides an in-memory cache for composed previews.
// This is the L1 cache: it avoids recomposing a page on every request.
// Entries are keyed by page ID and version, so an update automatically
// produces a cache miss.
package engine

import (
	"log/slog"
	"sync"
)

// cacheKey uniquely identifies a composed page version.
type cacheKey struct {
	id      string
	version int64
}

// previewCache is a concurrency-safe in-memory cache of composed pages.
type previewCache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]byte
}

func newPreviewCache() *previewCache {
	return &previewCache{entries: make(map[cacheKey][]byte)}
}

// get retrieves a composed page. Returns nil on miss.
func (c *previewCache) get(id string, version int64) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[cacheKey{id: id, version: version}]
}

// put stores a composed page, replacing older versions of the same ID.
func (c *previewCache) put(id string, version int64, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id {
			delete(c.entries, k)
		}
	}
	c.entries[cacheKey{id: id, version: version}] = html
	slog.Debug("preview cached", "id", id, "version", version, "size", len(c.entries))
}

// invalidate removes all cached versions for a page ID.
func (c *previewCache) invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id {
			delete(c.entries, k)
		}
	}
	slog.Debug("preview cache invalidated", "id", id)
}

// invalidateAll clears the entire cache.
func (c *previewCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]byte)
	slog.Debug("preview cache fully cleared")
}

func (c *previewCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
