// Package ristretto adapts dgraph-io/ristretto as the acceleration layer.
// Values are stored as V without serialization. Ristretto admits writes
// asynchronously and may drop them under pressure; a dropped Save surfaces
// as a later miss, which the decorator resolves against the store.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/cachekv/cache"
)

type Cache[V any] struct {
	c    *rc.Cache
	cost func(key string, value V) int64
}

var (
	_ cache.Cache[int] = (*Cache[int])(nil)
	_ cache.Clearer    = (*Cache[int])(nil)
)

type Config[V any] struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool

	// Cost weighs an entry against MaxCost. nil => every entry costs 1.
	Cost func(key string, value V) int64
}

func New[V any](cfg Config[V]) (*Cache[V], error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto cache: invalid config")
	}
	rcc, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	cost := cfg.Cost
	if cost == nil {
		cost = func(string, V) int64 { return 1 }
	}
	return &Cache[V]{c: rcc, cost: cost}, nil
}

func (c *Cache[V]) Contains(_ context.Context, key string) (bool, error) {
	v, ok := c.c.Get(key)
	if !ok {
		return false, nil
	}
	if _, ok := v.(V); !ok {
		c.c.Del(key) // self-heal: drop unexpected entry shape
		return false, nil
	}
	return true, nil
}

func (c *Cache[V]) Fetch(_ context.Context, key string) (V, bool, error) {
	var zero V
	v, ok := c.c.Get(key)
	if !ok {
		return zero, false, nil
	}
	tv, ok := v.(V)
	if !ok {
		c.c.Del(key) // self-heal: drop unexpected entry shape
		return zero, false, nil
	}
	return tv, true, nil
}

func (c *Cache[V]) Save(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0 // non-positive TTL means no expiry
	}
	c.c.SetWithTTL(key, value, c.cost(key, value), ttl)
	return nil
}

func (c *Cache[V]) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

func (c *Cache[V]) ClearAll(_ context.Context) error {
	c.c.Clear()
	return nil
}

func (c *Cache[V]) Close(_ context.Context) error {
	c.c.Wait()
	c.c.Close()
	return nil
}

// Metrics exposes ristretto's counters when Config.Metrics was set.
func (c *Cache[V]) Metrics() *rc.Metrics { return c.c.Metrics }
