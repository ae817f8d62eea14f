// Package cache provides the typed read cache in front of the provider
// registry, with an in-process backend for single-instance deployments and
// a Redis backend for shared ones.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned when a key is absent or expired
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheUnavailable is returned when the backend cannot be reached
	ErrCacheUnavailable = errors.New("cache: backend unavailable")

	// ErrInvalidValue is returned when a stored value cannot be decoded
	ErrInvalidValue = errors.New("cache: invalid value")
)

// FetchFunc loads a value from the source of truth on a cache miss
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Cache is a typed key-value cache with per-entry TTLs
type Cache[T any] interface {
	// Get returns the value for key, or ErrCacheMiss when absent or expired
	Get(ctx context.Context, key string) (T, error)

	// Set stores value under key for the given TTL
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// GetWithFetch reads through the cache: a miss invokes fetch and stores
	// the result before returning it. Fetch errors are never cached.
	GetWithFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc[T]) (T, error)

	// Health reports whether the backend is reachable
	Health(ctx context.Context) error

	// Close releases the backend connection
	Close() error
}
