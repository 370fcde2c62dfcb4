package cachekv

import (
	"time"

	"github.com/unkn0wn-root/cachekv/cache"
	"github.com/unkn0wn-root/cachekv/store"
)

// Options tune the behavior of the caching decorator.
// Only Store and Cache are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Store store.Store[V] // authoritative backend
	Cache cache.Cache[V] // acceleration layer; must implement cache.Clearer or cache.Flusher

	TTL      time.Duration // applied to every cache write; 0 => entries never expire
	Logger   Logger        // if nil, NopLogger is used
	Hooks    Hooks         // if nil, NopHooks is used
	Disabled bool          // default false (cache in use); true => pure store passthrough
}

// New builds a CachedStore around opts.Store and opts.Cache. The cache's
// clearing primitive is resolved here, once: ClearAll when the cache
// implements cache.Clearer, else FlushAll via cache.Flusher. A cache with
// neither fails construction with ErrNoClearMethod.
func New[V any](opts Options[V]) (*CachedStore[V], error) {
	return newCachedStore[V](opts)
}
