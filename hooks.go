package cachekv

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The decorator calls them on hot paths. Use hooks/async to offload slow sinks.
type Hooks interface {
	// A read was served from the cache.
	Hit(key string)

	// A read found no cache entry and fell through to the store.
	Miss(key string)

	// n store results from a default-fallback batch read were intentionally
	// not written back (a bulk default cannot prove per-key existence).
	WritebackSkipped(n int)

	// A cache operation failed and was absorbed as a miss or skipped write.
	// op ∈ {"contains", "fetch", "save"}. Faults on delete and clear are
	// returned to the caller instead of reported here.
	CacheFault(op, key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                       {}
func (NopHooks) Miss(string)                      {}
func (NopHooks) WritebackSkipped(int)             {}
func (NopHooks) CacheFault(string, string, error) {}
