// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/tagcache/tagcache"
//	"github.com/tagcache/tagcache/hooks/async"
//	"github.com/tagcache/tagcache/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    EvictedEvery: 10, // sample logs: ~every 10th eviction
//	    ExpiredEvery: 10,
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := tagcache.New[User](tagcache.Options{
//	    MaxSize: 10_000,
//	    Hooks:   hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/tagcache/tagcache"
)

type Hooks struct {
	inner tagcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ tagcache.Hooks = (*Hooks)(nil)

func New(inner tagcache.Hooks, workers, qlen int) *Hooks {
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

func (h *Hooks) EntryEvicted(ns, key string) { h.try(func() { h.inner.EntryEvicted(ns, key) }) }
func (h *Hooks) EntryExpired(ns, key, reason string) {
	h.try(func() { h.inner.EntryExpired(ns, key, reason) })
}
func (h *Hooks) TagInvalidated(tag string, removed int) {
	h.try(func() { h.inner.TagInvalidated(tag, removed) })
}
func (h *Hooks) KeyEncodeError(ns string, err error) {
	h.try(func() { h.inner.KeyEncodeError(ns, err) })
}
func (h *Hooks) SweepError(err error) { h.try(func() { h.inner.SweepError(err) }) }
