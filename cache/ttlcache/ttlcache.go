// Package ttlcache adapts jellydator/ttlcache as the acceleration layer.
// Values are stored as V without serialization; expiry is handled by
// ttlcache itself. New starts the expired-item eviction loop; call Close to
// stop it.
package ttlcache

import (
	"context"
	"sync"
	"time"

	tc "github.com/jellydator/ttlcache/v3"

	"github.com/unkn0wn-root/cachekv/cache"
)

type Cache[V any] struct {
	c        *tc.Cache[string, V]
	stopOnce sync.Once
}

var (
	_ cache.Cache[int] = (*Cache[int])(nil)
	_ cache.Clearer    = (*Cache[int])(nil)
)

type Config struct {
	// Capacity bounds the number of entries; 0 means unbounded.
	Capacity uint64

	// Sliding makes reads refresh an entry's TTL. Off by default so entries
	// expire at their write-time TTL and get re-read from the store.
	Sliding bool
}

func New[V any](cfg Config) *Cache[V] {
	var opts []tc.Option[string, V]
	if cfg.Capacity > 0 {
		opts = append(opts, tc.WithCapacity[string, V](cfg.Capacity))
	}
	if !cfg.Sliding {
		opts = append(opts, tc.WithDisableTouchOnHit[string, V]())
	}
	c := tc.New[string, V](opts...)
	go c.Start()
	return &Cache[V]{c: c}
}

// Contains never refreshes the entry's TTL, even in sliding mode.
func (c *Cache[V]) Contains(_ context.Context, key string) (bool, error) {
	item := c.c.Get(key, tc.WithDisableTouchOnHit[string, V]())
	return item != nil && !item.IsExpired(), nil
}

func (c *Cache[V]) Fetch(_ context.Context, key string) (V, bool, error) {
	var zero V
	item := c.c.Get(key)
	if item == nil || item.IsExpired() {
		return zero, false, nil
	}
	return item.Value(), true, nil
}

func (c *Cache[V]) Save(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = tc.NoTTL
	}
	c.c.Set(key, value, ttl)
	return nil
}

func (c *Cache[V]) Delete(_ context.Context, key string) error {
	c.c.Delete(key)
	return nil
}

func (c *Cache[V]) ClearAll(_ context.Context) error {
	c.c.DeleteAll()
	return nil
}

// Close stops the eviction loop. Safe to call multiple times.
func (c *Cache[V]) Close(_ context.Context) error {
	c.stopOnce.Do(c.c.Stop)
	return nil
}

// Len reports the number of items, including expired not-yet-evicted ones.
func (c *Cache[V]) Len() int { return c.c.Len() }
