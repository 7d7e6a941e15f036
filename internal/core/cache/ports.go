package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the caching operations interface.
// Collaborator lookups (coupons, delivery options) are cached through this port.
type Cache interface {
	// Get retrieves a value by key. A missing key returns an error wrapping ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified TTL. TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
