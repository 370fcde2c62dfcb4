// Package promhooks exports decorator events as Prometheus counters.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/cachekv"
)

// Hooks counts decorator events. Build one per CachedStore and use the
// namespace to keep instances apart.
type Hooks struct {
	hits             prometheus.Counter
	misses           prometheus.Counter
	writebackSkipped prometheus.Counter
	faults           *prometheus.CounterVec
}

var _ cachekv.Hooks = (*Hooks)(nil)

// New builds the collectors and registers them with reg. A nil reg skips
// registration, which is useful in tests.
func New(reg prometheus.Registerer, namespace string) (*Hooks, error) {
	h := &Hooks{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Reads served from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Reads that fell through to the store.",
		}),
		writebackSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writeback_skipped_total",
			Help:      "Default-fallback batch results intentionally not written back.",
		}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_faults_total",
			Help:      "Cache operations that failed and were absorbed.",
		}, []string{"op"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{h.hits, h.misses, h.writebackSkipped, h.faults} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return h, nil
}

func (h *Hooks) Hit(string)  { h.hits.Inc() }
func (h *Hooks) Miss(string) { h.misses.Inc() }

func (h *Hooks) WritebackSkipped(n int) { h.writebackSkipped.Add(float64(n)) }

func (h *Hooks) CacheFault(op, _ string, _ error) { h.faults.WithLabelValues(op).Inc() }
