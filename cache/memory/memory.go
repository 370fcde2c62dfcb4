// Package memory provides an in-process Cache with per-entry expiry.
// Expired entries are dropped lazily on read and by an optional background
// sweep. Intended for tests and single-process deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/cachekv/cache"
)

type entry[V any] struct {
	value V
	exp   time.Time // zero => never expires
}

// Cache keeps entries in-process. Safe for concurrent use.
type Cache[V any] struct {
	mu sync.RWMutex
	m  map[string]entry[V]

	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var (
	_ cache.Cache[int] = (*Cache[int])(nil)
	_ cache.Clearer    = (*Cache[int])(nil)
)

type Config struct {
	// SweepInterval sets how often expired entries are pruned in the
	// background. 0 disables the sweep; expired entries then linger until
	// read or cleared.
	SweepInterval time.Duration
}

func New[V any](cfg Config) *Cache[V] {
	c := &Cache[V]{m: make(map[string]entry[V])}
	if cfg.SweepInterval > 0 {
		c.ticker = time.NewTicker(cfg.SweepInterval)
		c.stopCh = make(chan struct{})
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case <-c.ticker.C:
					c.sweep()
				case <-c.stopCh:
					return
				}
			}
		}()
	}
	return c
}

func (c *Cache[V]) Contains(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if expired(e.exp) {
		c.drop(key)
		return false, nil
	}
	return true, nil
}

func (c *Cache[V]) Fetch(_ context.Context, key string) (V, bool, error) {
	var zero V
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false, nil
	}
	if expired(e.exp) {
		c.drop(key)
		return zero, false, nil
	}
	return e.value, true, nil
}

func (c *Cache[V]) Save(_ context.Context, key string, value V, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry[V]{value: value, exp: exp}
	c.mu.Unlock()
	return nil
}

func (c *Cache[V]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

func (c *Cache[V]) ClearAll(_ context.Context) error {
	c.mu.Lock()
	c.m = make(map[string]entry[V])
	c.mu.Unlock()
	return nil
}

// Close stops the background sweep. Safe to call multiple times.
func (c *Cache[V]) Close(_ context.Context) error {
	c.closeOnce.Do(func() {
		if c.stopCh != nil {
			close(c.stopCh)
			c.ticker.Stop() // stop ticker before waiting
			c.wg.Wait()
		}
	})
	return nil
}

// Len reports the number of entries, including expired not-yet-swept ones.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	n := len(c.m)
	c.mu.RUnlock()
	return n
}

func expired(exp time.Time) bool {
	return !exp.IsZero() && time.Now().After(exp)
}

// drop removes key only while it is still expired, so a Save racing the
// expiry read is not lost.
func (c *Cache[V]) drop(key string) {
	c.mu.Lock()
	if e, ok := c.m[key]; ok && expired(e.exp) {
		delete(c.m, key)
	}
	c.mu.Unlock()
}

func (c *Cache[V]) sweep() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}
