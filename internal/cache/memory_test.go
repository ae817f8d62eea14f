package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]()

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))

	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestMemoryCacheMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]()

	_, err := c.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int]()

	require.NoError(t, c.Set(ctx, "key", 1, -time.Second))

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]()

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheGetWithFetch(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]()

	calls := 0
	fetch := func(ctx context.Context, key string) (string, error) {
		calls++
		return "fetched", nil
	}

	// Miss populates the cache, hit does not refetch
	got, err := c.GetWithFetch(ctx, "key", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "fetched", got)
	assert.Equal(t, 1, calls)

	got, err = c.GetWithFetch(ctx, "key", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "fetched", got)
	assert.Equal(t, 1, calls)
}

func TestMemoryCacheGetWithFetchError(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]()

	wantErr := errors.New("backend down")
	_, err := c.GetWithFetch(ctx, "key", time.Minute, func(ctx context.Context, key string) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Failed fetch must not poison the cache
	_, err = c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
