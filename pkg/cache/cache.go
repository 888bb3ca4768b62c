// Package cache provides pluggable response caching for the Azure inventory
// client. Three backends are available: a file cache for CLI usage, a Redis
// cache for shared/server deployments, and a null cache that disables
// caching entirely.
package cache

import (
	"context"
	"errors"
	"time"
)

// TTLs for the different classes of cached Azure responses. Subscription
// metadata changes rarely; network inventory is refreshed more aggressively.
const (
	TTLSubscriptions = 24 * time.Hour
	TTLNetworks      = time.Hour
)

// ErrCacheMiss is returned by helpers that require a cached value.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the storage interface shared by all backends.
// Get returns (data, hit, error); a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
