package albert

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/maypok86/otter"

	"github.com/fivetwenty-io/albert-client/internal/constants"
)

// CacheEntry is one cached value.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry. A zero expiry never expires.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Cache stores serialized entities by key.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheOptions are applied by CachingGetter.
type CacheOptions struct {
	TTL       time.Duration
	KeyPrefix string
}

// DefaultCacheOptions returns the default TTL and key prefix.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:       constants.DefaultCacheTTL,
		KeyPrefix: constants.DefaultCacheKeyPrefix,
	}
}

// MemoryCache is an in-process cache backed by otter.
type MemoryCache struct {
	store otter.Cache[string, *CacheEntry]
}

// NewMemoryCache creates a memory cache holding up to maxSize entries.
func NewMemoryCache(maxSize int, ttl time.Duration) (*MemoryCache, error) {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	store, err := otter.MustBuilder[string, *CacheEntry](maxSize).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building memory cache: %w", err)
	}

	return &MemoryCache{store: store}, nil
}

// Get returns the entry for key.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	entry, ok := c.store.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		c.store.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores entry under key.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.store.Set(key, entry)

	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.store.Clear()

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Size returns the number of stored entries.
func (c *MemoryCache) Size() int {
	return c.store.Size()
}

// Close releases the cache.
func (c *MemoryCache) Close() {
	c.store.Close()
}

// CachingGetter serves Get from a cache and falls back to the wrapped getter
// on a miss. Failed lookups are not cached.
type CachingGetter[T any] struct {
	getter  Getter[T]
	cache   Cache
	kind    string
	options *CacheOptions
	now     func() time.Time
}

// NewCachingGetter wraps getter. A nil cache disables caching.
func NewCachingGetter[T any](getter Getter[T], cache Cache, options *CacheOptions) *CachingGetter[T] {
	if cache == nil {
		cache = NewNoOpCache()
	}

	if options == nil {
		options = DefaultCacheOptions()
	}

	return &CachingGetter[T]{
		getter:  getter,
		cache:   cache,
		kind:    strcase.ToSnake(kindOf[T]()),
		options: options,
		now:     time.Now,
	}
}

// Get implements Getter.
func (g *CachingGetter[T]) Get(ctx context.Context, id string) (T, error) {
	key := g.key(id)

	if entry, err := g.cache.Get(ctx, key); err == nil {
		var cached T
		if err := decodeCached(entry.Data, &cached); err == nil {
			return cached, nil
		}

		_ = g.cache.Delete(ctx, key)
	}

	entity, err := g.getter.Get(ctx, id)
	if err != nil {
		return entity, err
	}

	data, err := encodeCached(entity)
	if err != nil {
		return entity, nil
	}

	_ = g.cache.Set(ctx, key, &CacheEntry{
		Data:      data,
		ExpiresAt: g.now().Add(g.options.TTL),
	})

	return entity, nil
}

// Invalidate drops the cached entry for id.
func (g *CachingGetter[T]) Invalidate(ctx context.Context, id string) error {
	return g.cache.Delete(ctx, g.key(id))
}

func (g *CachingGetter[T]) key(id string) string {
	if g.options.KeyPrefix == "" {
		return g.kind + "." + id
	}

	return g.options.KeyPrefix + "." + g.kind + "." + id
}

// cachedEntity is the stored form of an entity. References marshal without
// their advisory names, so the names travel beside the body in walk order.
type cachedEntity struct {
	Entity json.RawMessage `json:"entity"`
	Names  []string        `json:"names,omitempty"`
}

// linkNamer is implemented by *Ref.
type linkNamer interface {
	linkName() string
	setLinkName(name string)
}

func encodeCached[T any](entity T) ([]byte, error) {
	body, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}

	var names []string

	walkLinks(reflect.ValueOf(&entity).Elem(), func(ref linkNamer) {
		names = append(names, ref.linkName())
	})

	return json.Marshal(cachedEntity{Entity: body, Names: names})
}

func decodeCached[T any](data []byte, out *T) error {
	var stored cachedEntity
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}

	if err := json.Unmarshal(stored.Entity, out); err != nil {
		return err
	}

	i := 0

	walkLinks(reflect.ValueOf(out).Elem(), func(ref linkNamer) {
		if i < len(stored.Names) {
			ref.setLinkName(stored.Names[i])
		}

		i++
	})

	if i != len(stored.Names) {
		return ErrCacheEntryMismatch
	}

	return nil
}

// walkLinks visits every addressable Ref reachable through exported struct
// fields, pointers and slices. Maps and interfaces are not entered.
func walkLinks(v reflect.Value, visit func(linkNamer)) {
	if v.CanAddr() {
		if ref, ok := v.Addr().Interface().(linkNamer); ok {
			visit(ref)

			return
		}
	}

	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			walkLinks(v.Elem(), visit)
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				walkLinks(v.Field(i), visit)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			walkLinks(v.Index(i), visit)
		}
	}
}
