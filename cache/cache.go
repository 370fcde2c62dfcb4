// Package cache defines the acceleration-layer contract consumed by cachekv.
//
// A Cache is the fast, possibly volatile side of the decorator. It may drop
// entries at any time (eviction, expiry, restart); it must never invent or
// mutate them. Fetch MUST return a value equal to the one previously passed
// to Save for that key — byte-backed implementations reverse whatever
// encoding they apply, and delete-then-miss on anything they cannot decode.
//
// Keyspace ownership: where an implementation namespaces a shared backend
// with a key prefix, that prefix is owned by the adapter. Foreign writes
// under it may be treated as corruption and deleted on read.
//
// Clearing is an optional capability, split in two because backends differ:
// Clearer removes the adapter's entries selectively, Flusher resets the
// whole backing storage. cachekv requires at least one of the two at
// construction time and prefers Clearer.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL'd key-value layer in front of a Store.
// Implementations must be safe for concurrent use.
type Cache[V any] interface {
	// Contains reports whether key holds an unexpired entry.
	Contains(ctx context.Context, key string) (bool, error)

	// Fetch returns (value, true, nil) on hit and (zero, false, nil) on
	// miss. Backend failures return (zero, false, err).
	Fetch(ctx context.Context, key string) (V, bool, error)

	// Save stores value under key. ttl <= 0 stores without expiry; the
	// backend may still evict under pressure.
	Save(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

// Clearer removes every entry the adapter owns.
type Clearer interface {
	ClearAll(ctx context.Context) error
}

// Flusher resets the backing storage wholesale.
type Flusher interface {
	FlushAll(ctx context.Context) error
}
