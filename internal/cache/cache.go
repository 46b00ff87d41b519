// Package cache is the key/value and lock service behind session revocation
// and idempotent requests.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired
	ErrMiss = errors.New("cache: key not found")
	// ErrLocked is returned by Lock when another holder owns the lock
	ErrLocked = errors.New("cache: lock is held")
)

// Unlock releases a lock obtained from Cache.Lock
type Unlock func(ctx context.Context) error

// Cache defines the interface for cache operations
type Cache interface {
	// Set stores value under key for ttl (ttl <= 0 keeps it forever)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value or ErrMiss
	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// Lock acquires the named lock without waiting; it expires after ttl.
	Lock(ctx context.Context, name string, ttl time.Duration) (Unlock, error)

	HealthCheck(ctx context.Context) error

	Close() error
}
