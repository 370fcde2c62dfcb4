// Package cachekv implements a write-through caching decorator for key-value
// stores. A CachedStore composes an authoritative Store with a faster, possibly
// volatile Cache: reads are served from the cache when possible, misses fall
// through to the store and warm the cache, writes go store-first, and clears
// propagate to both layers.
//
// Components:
//   - store.Store[V]: the authoritative backend (e.g. memory, Redis, Postgres).
//   - cache.Cache[V]: the acceleration layer (e.g. memory, Ristretto, BigCache,
//     Redis, ttlcache).
//   - codec.Codec[V]: (de)serializes V <-> []byte for byte-backed adapters.
//
// Coherence rules:
//   - Absence is never cached. A key missing from both layers returns the
//     caller's default (Get) or a NoSuchKeyError (GetOrFail) and leaves the
//     cache untouched.
//   - GetMultiple never writes back: a bulk default-fallback result cannot
//     prove, per key, "present with value X" against "absent, defaulted to X",
//     so caching it could install a phantom default.
//   - GetMultipleOrFail writes back every freshly fetched value, but only
//     after the whole store call succeeded.
//
// Read pattern:
//
//	cs, _ := cachekv.New(cachekv.Options[User]{Store: st, Cache: ca, TTL: 10 * time.Minute})
//	u, err := cs.GetOrFail(ctx, "user:42")
package cachekv
