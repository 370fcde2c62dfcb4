// Package bigcache adapts allegro/bigcache as the acceleration layer.
// BigCache expires entries only through its global LifeWindow, so every
// codec-encoded payload is framed with an envelope carrying its own expiry.
// Entries past that expiry, and corrupt or foreign bytes, are deleted on
// read and reported as a miss.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/cachekv/cache"
	"github.com/unkn0wn-root/cachekv/codec"
	"github.com/unkn0wn-root/cachekv/internal/wire"
)

type Cache[V any] struct {
	c     *bc.BigCache
	codec codec.Codec[V]
}

var (
	_ cache.Cache[int] = (*Cache[int])(nil)
	_ cache.Flusher    = (*Cache[int])(nil)
)

type Config[V any] struct {
	Codec codec.Codec[V]

	// LifeWindow is BigCache's global expiry. Keep it >= the decorator TTL,
	// otherwise entries vanish before the envelope says they should.
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New[V any](cfg Config[V]) (*Cache[V], error) {
	if cfg.Codec == nil {
		return nil, errors.New("bigcache: codec is required")
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{c: c, codec: cfg.Codec}, nil
}

func (c *Cache[V]) Contains(_ context.Context, key string) (bool, error) {
	_, ok, err := c.get(key)
	return ok, err
}

func (c *Cache[V]) Fetch(_ context.Context, key string) (V, bool, error) {
	var zero V
	payload, ok, err := c.get(key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		_ = c.c.Delete(key) // self-heal: undecodable value
		return zero, false, nil
	}
	return v, true, nil
}

// get returns the undecoded payload for key, validating the envelope and
// enforcing per-entry expiry.
func (c *Cache[V]) get(key string) ([]byte, bool, error) {
	raw, err := c.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	exp, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		_ = c.c.Delete(key) // self-heal corrupt
		return nil, false, nil
	}
	if exp != 0 && time.Now().UnixNano() > exp {
		_ = c.c.Delete(key)
		return nil, false, nil
	}
	return payload, true, nil
}

func (c *Cache[V]) Save(_ context.Context, key string, value V, ttl time.Duration) error {
	payload, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	return c.c.Set(key, wire.EncodeEntry(exp, payload))
}

func (c *Cache[V]) Delete(_ context.Context, key string) error {
	err := c.c.Delete(key)
	if err == bc.ErrEntryNotFound {
		return nil // absent key is a no-op
	}
	return err
}

// FlushAll resets every shard at once. BigCache has no synchronous
// entry-by-entry purge, so this adapter declares the flush capability
// rather than the clear one.
func (c *Cache[V]) FlushAll(_ context.Context) error {
	return c.c.Reset()
}

func (c *Cache[V]) Close(_ context.Context) error {
	return c.c.Close()
}
