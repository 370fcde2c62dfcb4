// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/cachekv"
//	"github.com/unkn0wn-root/cachekv/hooks/async"
//	"github.com/unkn0wn-root/cachekv/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    HitEvery:  100, // sample logs: ~every 100th hit
//	    MissEvery: 10,  // ~every 10th miss
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cs, _ := cachekv.New[User](cachekv.Options[User]{
//	    Store: st,
//	    Cache: ca,
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/cachekv"
)

type Hooks struct {
	inner cachekv.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ cachekv.Hooks = (*Hooks)(nil)

func New(inner cachekv.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Hit(key string)         { h.try(func() { h.inner.Hit(key) }) }
func (h *Hooks) Miss(key string)        { h.try(func() { h.inner.Miss(key) }) }
func (h *Hooks) WritebackSkipped(n int) { h.try(func() { h.inner.WritebackSkipped(n) }) }
func (h *Hooks) CacheFault(op, key string, err error) {
	h.try(func() { h.inner.CacheFault(op, key, err) })
}
