package cachekv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/cachekv/cache"
	"github.com/unkn0wn-root/cachekv/store"
)

// CachedStore is a write-through caching decorator around a store.Store.
// It implements store.Store[V] itself, so it can stand in anywhere the
// wrapped store could.
type CachedStore[V any] struct {
	store   store.Store[V]
	cache   cache.Cache[V]
	ttl     time.Duration
	log     Logger
	hooks   Hooks
	enabled bool
	clear   func(ctx context.Context) error // resolved once in newCachedStore
}

var _ store.Store[struct{}] = (*CachedStore[struct{}])(nil)

func newCachedStore[V any](opts Options[V]) (*CachedStore[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("cachekv: store is required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("cachekv: cache is required")
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("cachekv: negative ttl %v", opts.TTL)
	}

	cs := &CachedStore[V]{
		store:   opts.Store,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		enabled: !opts.Disabled,
	}

	// defaults
	cs.log = coalesce[Logger](opts.Logger, NopLogger{})
	cs.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	// Resolve the clearing primitive once; ClearAll removes entries
	// synchronously, so it wins over FlushAll when the cache has both.
	switch c := opts.Cache.(type) {
	case cache.Clearer:
		cs.clear = c.ClearAll
	case cache.Flusher:
		cs.clear = c.FlushAll
	default:
		return nil, ErrNoClearMethod
	}

	return cs, nil
}

// Enabled reports whether the cache layer is in use. A disabled CachedStore
// passes every operation straight through to the store.
func (cs *CachedStore[V]) Enabled() bool { return cs.enabled }

// Set writes value to the store and then to the cache with the configured
// TTL. The store write is authoritative: on store error the cache is left
// untouched and the error propagates unchanged.
func (cs *CachedStore[V]) Set(ctx context.Context, key string, value V) error {
	if err := cs.store.Set(ctx, key, value); err != nil {
		return err
	}
	cs.cacheSave(ctx, key, value)
	return nil
}

// Get returns the cached value when present, without consulting the store.
// On miss the store is queried; a missing key returns def with the cache
// left untouched - absence is never cached. Any other store error
// propagates unchanged.
func (cs *CachedStore[V]) Get(ctx context.Context, key string, def V) (V, error) {
	if v, ok := cs.cacheFetch(ctx, key); ok {
		return v, nil
	}
	v, err := cs.store.GetOrFail(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNoSuchKey) {
			return def, nil
		}
		var zero V
		return zero, err
	}
	cs.cacheSave(ctx, key, v)
	return v, nil
}

// GetOrFail returns the cached value when present, otherwise the store's.
// A key absent from both layers fails with a *store.NoSuchKeyError.
func (cs *CachedStore[V]) GetOrFail(ctx context.Context, key string) (V, error) {
	if v, ok := cs.cacheFetch(ctx, key); ok {
		return v, nil
	}
	v, err := cs.store.GetOrFail(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	cs.cacheSave(ctx, key, v)
	return v, nil
}

// GetMultiple resolves every requested key, serving cache hits first and
// delegating the rest to a single store.GetMultiple call with def. Values
// fetched through the default-fallback batch are NOT written back: a bulk
// default cannot prove, per key, "present with value X" against "absent,
// defaulted to X", and caching the latter would install a phantom default.
// With zero misses the store is not called.
func (cs *CachedStore[V]) GetMultiple(ctx context.Context, keys []string, def V) (map[string]V, error) {
	out, misses := cs.partition(ctx, keys)
	if len(misses) == 0 {
		return out, nil
	}
	fetched, err := cs.store.GetMultiple(ctx, misses, def)
	if err != nil {
		return nil, err
	}
	for k, v := range fetched {
		if _, hit := out[k]; hit {
			continue // cache wins on collision
		}
		out[k] = v
	}
	if cs.enabled {
		cs.hooks.WritebackSkipped(len(misses))
	}
	return out, nil
}

// GetMultipleOrFail resolves every requested key or fails as a whole with a
// *store.NoSuchKeyError naming the absent ones. The fail-fast batch has no
// existence ambiguity, so every freshly fetched value is written back with
// the configured TTL - but only after the whole store call succeeded, so a
// failed batch never populates the cache partially.
func (cs *CachedStore[V]) GetMultipleOrFail(ctx context.Context, keys []string) (map[string]V, error) {
	out, misses := cs.partition(ctx, keys)
	if len(misses) == 0 {
		return out, nil
	}
	fetched, err := cs.store.GetMultipleOrFail(ctx, misses)
	if err != nil {
		return nil, err
	}
	for k, v := range fetched {
		if _, hit := out[k]; hit {
			continue
		}
		cs.cacheSave(ctx, k, v)
		out[k] = v
	}
	return out, nil
}

// Remove deletes key from the store and then from the cache. A cache delete
// failure is returned rather than absorbed: swallowing it would leave
// removed data readable until TTL or eviction.
func (cs *CachedStore[V]) Remove(ctx context.Context, key string) error {
	if err := cs.store.Remove(ctx, key); err != nil {
		return err
	}
	if !cs.enabled {
		return nil
	}
	return cs.cache.Delete(ctx, key)
}

// Exists reports whether key is present, trusting the cache first. A key
// deleted from the store out-of-band may still report true from a stale
// cache entry until it expires or is evicted.
func (cs *CachedStore[V]) Exists(ctx context.Context, key string) (bool, error) {
	if cs.cacheContains(ctx, key) {
		return true, nil
	}
	return cs.store.Exists(ctx, key)
}

// Clear empties the store and then the cache, via the clearing primitive
// resolved at construction. A cache clear failure is returned for the same
// reason as in Remove.
func (cs *CachedStore[V]) Clear(ctx context.Context) error {
	if err := cs.store.Clear(ctx); err != nil {
		return err
	}
	if !cs.enabled {
		return nil
	}
	return cs.clear(ctx)
}

// partition splits keys into cache-served values and cache misses in one
// linear pass. Duplicate keys are folded so each distinct key is resolved
// exactly once.
func (cs *CachedStore[V]) partition(ctx context.Context, keys []string) (map[string]V, []string) {
	hits := make(map[string]V, len(keys))
	misses := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if v, ok := cs.cacheFetch(ctx, k); ok {
			hits[k] = v
		} else {
			misses = append(misses, k)
		}
	}
	return hits, misses
}

// cacheFetch reads key from the cache. A cache fault degrades to a miss:
// the worst outcome of ignoring it is one extra store read.
func (cs *CachedStore[V]) cacheFetch(ctx context.Context, key string) (V, bool) {
	var zero V
	if !cs.enabled {
		return zero, false
	}
	v, ok, err := cs.cache.Fetch(ctx, key)
	if err != nil {
		cs.hooks.CacheFault("fetch", key, err)
		cs.log.Debug("cache fetch failed; treating as miss", Fields{"key": key, "err": err})
		return zero, false
	}
	if ok {
		cs.hooks.Hit(key)
	} else {
		cs.hooks.Miss(key)
	}
	return v, ok
}

// cacheSave writes key through to the cache. Best-effort: a failed save
// only costs a future miss.
func (cs *CachedStore[V]) cacheSave(ctx context.Context, key string, value V) {
	if !cs.enabled {
		return
	}
	if err := cs.cache.Save(ctx, key, value, cs.ttl); err != nil {
		cs.hooks.CacheFault("save", key, err)
		cs.log.Debug("cache save failed; skipping write-back", Fields{"key": key, "err": err})
	}
}

// cacheContains checks presence without fetching the value. Faults degrade
// to a miss, same as cacheFetch.
func (cs *CachedStore[V]) cacheContains(ctx context.Context, key string) bool {
	if !cs.enabled {
		return false
	}
	ok, err := cs.cache.Contains(ctx, key)
	if err != nil {
		cs.hooks.CacheFault("contains", key, err)
		cs.log.Debug("cache contains failed; treating as miss", Fields{"key": key, "err": err})
		return false
	}
	return ok
}
