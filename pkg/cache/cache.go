// Package cache stores pipeline intermediates keyed by content hash.
//
// The pipeline caches three stages: topic trees generated from a document,
// layouts computed from a tree, and rendered artifacts. Keys are produced by a
// [Keyer] so that the CLI (file cache) and the API server (Redis) share the
// same key scheme.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//   - [MemoryCache]: process-local, for tests and single-process servers
//   - [NullCache]: caching disabled
//
// Wrap any backend with [Instrument] to report hits, misses and writes to the
// registered [observability.CacheHooks].
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/topicmap/pkg/observability"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and live.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Entry lifetimes per pipeline stage.
const (
	// TTLGenerate is how long a model response is reused for the same document.
	TTLGenerate = 7 * 24 * time.Hour

	// TTLLayout is how long a computed layout is reused. Layouts are
	// deterministic so this only bounds disk usage.
	TTLLayout = 30 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact is reused.
	TTLArtifact = 30 * 24 * time.Hour

	// TTLHTTP is how long raw HTTP responses are reused.
	TTLHTTP = 24 * time.Hour
)

// =============================================================================
// Instrumentation
// =============================================================================

// instrumented reports cache traffic to the observability hooks.
type instrumented struct {
	Cache
}

// Instrument wraps c so that every Get and Set is reported to
// [observability.Cache]. Wrapping an already instrumented cache is a no-op.
func Instrument(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}

// KeyType returns the stage segment of a key produced by a [Keyer]:
// "generate", "layout", "artifact" or "http". Scope prefixes added by
// [ScopedKeyer] are skipped.
func KeyType(key string) string {
	for _, part := range strings.Split(key, ":") {
		switch part {
		case keyGenerate, keyLayout, keyArtifact, keyHTTP:
			return part
		}
	}
	return "unknown"
}
