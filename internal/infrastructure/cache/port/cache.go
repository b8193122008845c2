package port

import (
	"context"
	"time"
)

// Cache is the key-value cache used for resolved profiles.
// Implementations must be safe for concurrent use. Values are strings;
// callers own the encoding.
type Cache interface {
	// Get returns ("", ErrMiss) for an absent key and any other error for
	// transport or server failures.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key with the provided TTL. Zero or negative TTL means
	// no expiration (persist until evicted).
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes one or more keys and returns the number of keys removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the cache backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// ErrMiss signals a cache miss.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
