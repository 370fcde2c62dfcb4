// Package redis adapts go-redis as the acceleration layer. Values are
// codec-encoded and framed with the entry envelope; expiry is delegated to
// Redis TTLs. Corrupt or foreign bytes under the cache's keys are deleted
// on read and reported as a miss.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cachekv/cache"
	"github.com/unkn0wn-root/cachekv/codec"
	"github.com/unkn0wn-root/cachekv/internal/wire"
)

var ErrNilClient = errors.New("redis cache: nil client")

const clearScanCount = 512

type Cache[V any] struct {
	rdb         goredis.UniversalClient
	codec       codec.Codec[V]
	prefix      string
	closeClient bool
}

var (
	_ cache.Cache[int] = (*Cache[int])(nil)
	_ cache.Clearer    = (*Cache[int])(nil)
)

type Config[V any] struct {
	Client goredis.UniversalClient
	Codec  codec.Codec[V]

	// Prefix namespaces the cache's keys (e.g. "cache:user:"). ClearAll
	// deletes only keys under it - keep it distinct from any store prefix
	// sharing the same database.
	Prefix string

	CloseClient bool // set true only if this cache exclusively owns the client
}

func New[V any](cfg Config[V]) (*Cache[V], error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Codec == nil {
		return nil, errors.New("redis cache: codec is required")
	}
	return &Cache[V]{
		rdb:         cfg.Client,
		codec:       cfg.Codec,
		prefix:      cfg.Prefix,
		closeClient: cfg.CloseClient,
	}, nil
}

func (c *Cache[V]) key(k string) string { return c.prefix + k }

func (c *Cache[V]) Contains(ctx context.Context, key string) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, _, err := wire.DecodeEntry(raw); err != nil {
		_ = c.rdb.Del(ctx, c.key(key)) // self-heal corrupt
		return false, nil
	}
	return true, nil
}

func (c *Cache[V]) Fetch(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == goredis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	_, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		_ = c.rdb.Del(ctx, c.key(key)) // self-heal corrupt
		return zero, false, nil
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		_ = c.rdb.Del(ctx, c.key(key)) // self-heal: undecodable value
		return zero, false, nil
	}
	return v, true, nil
}

// Save stores the enveloped value. The envelope's expiry field stays zero:
// ttl maps to the native Redis key TTL (<= 0 means no expiry).
func (c *Cache[V]) Save(ctx context.Context, key string, value V, ttl time.Duration) error {
	payload, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, c.key(key), wire.EncodeEntry(0, payload), ttl).Err()
}

func (c *Cache[V]) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.key(key)).Err()
}

// ClearAll removes every key under the cache prefix using SCAN and batched
// DEL, so it does not block the server the way FLUSHDB can.
func (c *Cache[V]) ClearAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+"*", clearScanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the underlying redis client only when this cache owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (c *Cache[V]) Close(context.Context) error {
	if c.closeClient {
		if err := c.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
