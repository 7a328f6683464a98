// Package cache provides response caching for index clients.
//
// The [Cache] interface abstracts over storage backends: a file-based
// cache for CLI usage, a redis-backed cache for shared deployments, and
// a null cache for tests or --no-cache runs. Entries are opaque byte
// slices with a per-entry TTL; key hashing keeps filesystem-unsafe keys
// out of the backends.
package cache

import (
	"context"
	"time"
)

// Cache stores byte values under string keys with a time-to-live.
// A TTL of 0 means the entry never expires.
//
// Implementations must treat Get of a missing or expired key as a miss
// (found == false), not an error.
type Cache interface {
	// Get retrieves a value. found is false on a miss.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the backend.
	Close() error
}

// Scoped wraps a Cache, prefixing every key with a namespace.
// This keeps different data sources (e.g. "pypi:", "markers:") from
// colliding in a shared backend.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a namespaced view of inner. Scoped views can be
// nested; prefixes concatenate.
func NewScoped(inner Cache, prefix string) *Scoped {
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a value under the prefixed key.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a value under the prefixed key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes the prefixed key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the underlying cache.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)
