package cache

import (
	"context"
	"sync"
	"time"
)

var _ Cache[struct{}] = (*MemoryCache[struct{}])(nil)

type memoryEntry[T any] struct {
	value    T
	deadline time.Time
}

// MemoryCache keeps entries in a mutex-guarded map. Expiry is lazy: an
// expired entry is dropped the next time it is read. Good enough for a
// single instance; shared deployments use RueidisCache.
type MemoryCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry[T]
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{entries: make(map[string]memoryEntry[T])}
}

func (m *MemoryCache[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return zero, ErrCacheMiss
	}
	if time.Now().After(entry.deadline) {
		m.mu.Lock()
		// Re-check under the write lock in case Set raced the expiry
		if current, ok := m.entries[key]; ok && time.Now().After(current.deadline) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return zero, ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry[T]{
		value:    value,
		deadline: time.Now().Add(ttl),
	}
	return nil
}

func (m *MemoryCache[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// GetWithFetch reads through the cache. No stampede protection: concurrent
// misses for one key each call fetch, which is fine for the registry's read
// volume.
func (m *MemoryCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetch FetchFunc[T],
) (T, error) {
	if value, err := m.Get(ctx, key); err == nil {
		return value, nil
	}

	value, err := fetch(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	_ = m.Set(ctx, key, value, ttl)
	return value, nil
}

// Health always succeeds for the in-process backend
func (m *MemoryCache[T]) Health(ctx context.Context) error {
	return nil
}

// Close drops all entries
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry[T])
	return nil
}
