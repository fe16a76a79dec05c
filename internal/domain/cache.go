package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache defines the port for the key-value store holding quiz sessions.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites any existing value. An expiration of 0 keeps the item indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete does not fail when the key is missing.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	// HGetAll returns ErrCacheMiss when the hash does not exist.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	HSet(ctx context.Context, key string, field string, value string) error

	// HSetNX sets field only if it is absent and reports whether it was set.
	HSetNX(ctx context.Context, key string, field string, value string) (bool, error)

	HDel(ctx context.Context, key string, fields ...string) error

	Expire(ctx context.Context, key string, expiration time.Duration) error
}
