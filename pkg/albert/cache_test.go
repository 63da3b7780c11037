package albert_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

func newMemoryCache(t *testing.T) *albert.MemoryCache {
	t.Helper()

	cache, err := albert.NewMemoryCache(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	return cache
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := newMemoryCache(t)
		entry := &albert.CacheEntry{Data: []byte(`{"id":"COM1"}`), ExpiresAt: time.Now().Add(time.Minute)}

		require.NoError(t, cache.Set(ctx, "company.COM1", entry))

		got, err := cache.Get(ctx, "company.COM1")
		require.NoError(t, err)
		assert.Equal(t, entry.Data, got.Data)
		assert.True(t, cache.Has(ctx, "company.COM1"))
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()

		cache := newMemoryCache(t)

		_, err := cache.Get(ctx, "missing")
		require.ErrorIs(t, err, albert.ErrCacheKeyNotFound)
		assert.False(t, cache.Has(ctx, "missing"))
	})

	t.Run("expired entry", func(t *testing.T) {
		t.Parallel()

		cache := newMemoryCache(t)
		require.NoError(t, cache.Set(ctx, "old", &albert.CacheEntry{
			Data:      []byte(`{}`),
			ExpiresAt: time.Now().Add(-time.Second),
		}))

		_, err := cache.Get(ctx, "old")
		require.ErrorIs(t, err, albert.ErrCacheEntryExpired)

		_, err = cache.Get(ctx, "old")
		require.ErrorIs(t, err, albert.ErrCacheKeyNotFound)
	})

	t.Run("delete and clear", func(t *testing.T) {
		t.Parallel()

		cache := newMemoryCache(t)
		require.NoError(t, cache.Set(ctx, "a", &albert.CacheEntry{Data: []byte(`1`)}))
		require.NoError(t, cache.Set(ctx, "b", &albert.CacheEntry{Data: []byte(`2`)}))

		require.NoError(t, cache.Delete(ctx, "a"))
		assert.False(t, cache.Has(ctx, "a"))
		assert.True(t, cache.Has(ctx, "b"))

		require.NoError(t, cache.Clear(ctx))
		assert.False(t, cache.Has(ctx, "b"))
	})
}

func TestCacheEntry_Expired(t *testing.T) {
	t.Parallel()

	assert.False(t, (&albert.CacheEntry{}).Expired())
	assert.False(t, (&albert.CacheEntry{ExpiresAt: time.Now().Add(time.Hour)}).Expired())
	assert.True(t, (&albert.CacheEntry{ExpiresAt: time.Now().Add(-time.Hour)}).Expired())
}

func TestCachingGetter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("second lookup is served from cache", func(t *testing.T) {
		t.Parallel()

		getter := &countingGetter[*albert.Company]{get: func(id string) (*albert.Company, error) {
			return &albert.Company{ID: id, Name: "Acme"}, nil
		}}
		cache := newMemoryCache(t)
		cached := albert.NewCachingGetter[*albert.Company](getter, cache, nil)

		first, err := cached.Get(ctx, "COM1")
		require.NoError(t, err)

		second, err := cached.Get(ctx, "COM1")
		require.NoError(t, err)

		assert.Equal(t, 1, getter.calls)
		assert.Equal(t, first, second)
		assert.True(t, cache.Has(ctx, "albert.company.COM1"))
	})

	t.Run("cache hit keeps advisory names", func(t *testing.T) {
		t.Parallel()

		getter := &countingGetter[*albert.InventoryItem]{get: func(id string) (*albert.InventoryItem, error) {
			return &albert.InventoryItem{
				ID:       id,
				Name:     "Acetone",
				Category: albert.CategoryRawMaterials,
				Company:  albert.RefOf[*albert.Company](albert.EntityLink{ID: "COM1", Name: "Sigma"}),
				Tags: []albert.Ref[*albert.Tag]{
					albert.RefOf[*albert.Tag](albert.EntityLink{ID: "TAG1", Name: "solvent"}),
					albert.LinkTo[*albert.Tag]("TAG2"),
				},
				Cas: []albert.CasAmount{
					{Cas: albert.RefOf[*albert.Cas](albert.EntityLink{ID: "CAS1", Name: "67-64-1"}), Max: floatPtr(100)},
				},
				Minimum: []albert.InventoryMinimum{
					{Location: albert.RefOf[*albert.Location](albert.EntityLink{ID: "LOC1", Name: "Lab A"}), Minimum: 2},
				},
			}, nil
		}}
		cached := albert.NewCachingGetter[*albert.InventoryItem](getter, newMemoryCache(t), nil)

		fresh, err := cached.Get(ctx, "INVA1")
		require.NoError(t, err)

		hit, err := cached.Get(ctx, "INVA1")
		require.NoError(t, err)

		assert.Equal(t, 1, getter.calls)
		assert.Equal(t, fresh, hit)

		link, ok := hit.Company.Link()
		require.True(t, ok)
		assert.Equal(t, "Sigma", link.Name)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		t.Parallel()

		failing := true
		getter := &countingGetter[*albert.Company]{get: func(id string) (*albert.Company, error) {
			if failing {
				return nil, errors.New("boom")
			}

			return &albert.Company{ID: id}, nil
		}}
		cached := albert.NewCachingGetter[*albert.Company](getter, newMemoryCache(t), nil)

		_, err := cached.Get(ctx, "COM1")
		require.Error(t, err)

		failing = false

		got, err := cached.Get(ctx, "COM1")
		require.NoError(t, err)
		assert.Equal(t, "COM1", got.ID)
		assert.Equal(t, 2, getter.calls)
	})

	t.Run("invalidate", func(t *testing.T) {
		t.Parallel()

		getter := &countingGetter[*albert.Tag]{get: func(id string) (*albert.Tag, error) {
			return &albert.Tag{ID: id, Name: "solvent"}, nil
		}}
		cached := albert.NewCachingGetter[*albert.Tag](getter, newMemoryCache(t), &albert.CacheOptions{TTL: time.Minute})

		_, err := cached.Get(ctx, "TAG1")
		require.NoError(t, err)
		require.NoError(t, cached.Invalidate(ctx, "TAG1"))

		_, err = cached.Get(ctx, "TAG1")
		require.NoError(t, err)
		assert.Equal(t, 2, getter.calls)
	})

	t.Run("nil cache always delegates", func(t *testing.T) {
		t.Parallel()

		getter := &countingGetter[*albert.Tag]{get: func(id string) (*albert.Tag, error) {
			return &albert.Tag{ID: id}, nil
		}}
		cached := albert.NewCachingGetter[*albert.Tag](getter, nil, nil)

		for range 3 {
			_, err := cached.Get(ctx, "TAG1")
			require.NoError(t, err)
		}

		assert.Equal(t, 3, getter.calls)
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := albert.NewNoOpCache()

	require.NoError(t, cache.Set(ctx, "key", &albert.CacheEntry{Data: []byte(`1`)}))

	_, err := cache.Get(ctx, "key")
	require.ErrorIs(t, err, albert.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
	require.NoError(t, cache.Delete(ctx, "key"))
	require.NoError(t, cache.Clear(ctx))
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	front := newMemoryCache(t)
	back := newMemoryCache(t)
	chain := albert.NewCacheChain(front, back)

	require.NoError(t, back.Set(ctx, "key", &albert.CacheEntry{Data: []byte(`"v"`)}))

	entry, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"v"`), entry.Data)
	assert.True(t, front.Has(ctx, "key"), "hit is copied into the front layer")

	_, err = chain.Get(ctx, "other")
	require.ErrorIs(t, err, albert.ErrKeyNotFoundInAnyCache)

	require.NoError(t, chain.Delete(ctx, "key"))
	assert.False(t, chain.Has(ctx, "key"))

	require.NoError(t, chain.Set(ctx, "both", &albert.CacheEntry{Data: []byte(`1`)}))
	assert.True(t, front.Has(ctx, "both"))
	assert.True(t, back.Has(ctx, "both"))

	require.NoError(t, chain.Clear(ctx))
	assert.False(t, chain.Has(ctx, "both"))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("default is memory", func(t *testing.T) {
		t.Parallel()

		cache, err := albert.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &albert.MemoryCache{}, cache)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		cache, err := albert.NewCacheBuilder().WithType(albert.CacheTypeNone).Build()
		require.NoError(t, err)
		assert.IsType(t, &albert.NoOpCache{}, cache)
	})

	t.Run("redis", func(t *testing.T) {
		t.Parallel()

		cache, err := albert.NewCacheBuilder().
			WithType(albert.CacheTypeRedis).
			WithRedis(&albert.RedisCacheConfig{Addr: "localhost:6379"}).
			Build()
		require.NoError(t, err)
		assert.IsType(t, &albert.RedisCache{}, cache)
	})

	t.Run("missing backend config", func(t *testing.T) {
		t.Parallel()

		_, err := albert.NewCacheFromConfig(&albert.CacheConfig{Type: albert.CacheTypeNATS})
		require.ErrorIs(t, err, albert.ErrNATSConfigRequired)

		_, err = albert.NewCacheFromConfig(&albert.CacheConfig{Type: albert.CacheTypeRedis})
		require.ErrorIs(t, err, albert.ErrRedisConfigRequired)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := albert.NewCacheFromConfig(&albert.CacheConfig{Type: "memcached"})
		require.ErrorIs(t, err, albert.ErrUnknownCacheType)
	})

	t.Run("builder keeps options", func(t *testing.T) {
		t.Parallel()

		options := &albert.CacheOptions{TTL: time.Second, KeyPrefix: "test"}
		config := albert.NewCacheBuilder().WithMemory(10, time.Second).WithOptions(options).Config()

		assert.Equal(t, 10, config.MaxSize)
		assert.Equal(t, time.Second, config.TTL)
		assert.Same(t, options, config.Options)
	})
}
