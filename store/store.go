// Package store defines the authoritative-backend contract consumed by
// cachekv.
//
// A Store is the durable side of the decorator: whatever it returns for a
// key is the truth the cache layer is allowed to copy. Implementations MUST
// hand values back exactly as they were stored (no lossy re-encoding), and
// MUST be safe for concurrent use.
//
// Read semantics come in two flavours, and the distinction matters to the
// coherence protocol upstream:
//
//   - default-fallback reads (Get, GetMultiple) substitute a caller-supplied
//     default for absent keys and never report absence as an error;
//   - fail-fast reads (GetOrFail, GetMultipleOrFail) report absence with a
//     *NoSuchKeyError and never substitute.
//
// Batch results are complete mappings: every requested key appears in the
// returned map, bound either to its stored value or to the default.
package store

import "context"

// Store is an exact-match key-value backend.
type Store[V any] interface {
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value V) error

	// Get returns the value for key, or def when the key is absent.
	// Absence is not an error; backend failures are.
	Get(ctx context.Context, key string, def V) (V, error)

	// GetOrFail returns the value for key, or a *NoSuchKeyError when the
	// key is absent (errors.Is(err, ErrNoSuchKey) matches).
	GetOrFail(ctx context.Context, key string) (V, error)

	// GetMultiple returns a mapping covering every requested key, binding
	// absent ones to def. Duplicate keys are allowed.
	GetMultiple(ctx context.Context, keys []string, def V) (map[string]V, error)

	// GetMultipleOrFail returns a complete mapping, or a *NoSuchKeyError
	// listing every absent key. No partial results are returned on failure.
	GetMultipleOrFail(ctx context.Context, keys []string) (map[string]V, error)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Clear removes every key.
	Clear(ctx context.Context) error
}
