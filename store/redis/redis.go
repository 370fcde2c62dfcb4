// Package redis provides a Store backed by Redis. Values are codec-encoded;
// batch reads use a single MGET round-trip.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cachekv/codec"
	"github.com/unkn0wn-root/cachekv/store"
)

var ErrNilClient = errors.New("redis store: nil client")

const clearScanCount = 512

type Store[V any] struct {
	rdb         goredis.UniversalClient
	codec       codec.Codec[V]
	prefix      string
	closeClient bool
}

var _ store.Store[int] = (*Store[int])(nil)

type Config[V any] struct {
	Client goredis.UniversalClient
	Codec  codec.Codec[V]

	// Prefix namespaces every key (e.g. "user:"). Clear deletes only keys
	// under the prefix, so distinct stores can share one Redis database.
	// Empty prefix means the store owns the whole keyspace and Clear wipes it.
	Prefix string

	CloseClient bool // set true only if this store exclusively owns the client
}

func New[V any](cfg Config[V]) (*Store[V], error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Codec == nil {
		return nil, errors.New("redis store: codec is required")
	}
	return &Store[V]{
		rdb:         cfg.Client,
		codec:       cfg.Codec,
		prefix:      cfg.Prefix,
		closeClient: cfg.CloseClient,
	}, nil
}

func (s *Store[V]) key(k string) string { return s.prefix + k }

func (s *Store[V]) Set(ctx context.Context, key string, value V) error {
	b, err := s.codec.Encode(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(key), b, 0).Err()
}

func (s *Store[V]) Get(ctx context.Context, key string, def V) (V, error) {
	v, err := s.GetOrFail(ctx, key)
	if errors.Is(err, store.ErrNoSuchKey) {
		return def, nil
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}

func (s *Store[V]) GetOrFail(ctx context.Context, key string) (V, error) {
	var zero V
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err == goredis.Nil {
		return zero, store.Missing(key)
	}
	if err != nil {
		return zero, err
	}
	return s.codec.Decode(b)
}

func (s *Store[V]) GetMultiple(ctx context.Context, keys []string, def V) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.mget(ctx, keys)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		if vals[i] == nil {
			out[k] = def
			continue
		}
		v, err := s.codec.Decode(vals[i])
		if err != nil {
			return nil, fmt.Errorf("redis store: decode %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func (s *Store[V]) GetMultipleOrFail(ctx context.Context, keys []string) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.mget(ctx, keys)
	if err != nil {
		return nil, err
	}
	var missing []string
	for i, k := range keys {
		if vals[i] == nil {
			missing = append(missing, k)
			continue
		}
		v, err := s.codec.Decode(vals[i])
		if err != nil {
			return nil, fmt.Errorf("redis store: decode %q: %w", k, err)
		}
		out[k] = v
	}
	if len(missing) > 0 {
		return nil, store.Missing(missing...)
	}
	return out, nil
}

// mget fetches all keys in one round-trip. Missing keys map to nil.
func (s *Store[V]) mget(ctx context.Context, keys []string) ([][]byte, error) {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	vals, err := s.rdb.MGet(ctx, full...).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(keys))
	for i, v := range vals {
		switch vv := v.(type) {
		case nil:
			out[i] = nil
		case string:
			out[i] = []byte(vv)
		case []byte:
			out[i] = vv
		default:
			return nil, fmt.Errorf("redis store: unexpected MGET reply %T at %s", vv, keys[i])
		}
	}
	return out, nil
}

func (s *Store[V]) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

func (s *Store[V]) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes every key under the store's prefix using SCAN and batched
// DEL, so it does not block the server the way FLUSHDB can.
func (s *Store[V]) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", clearScanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Store[V]) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
