package asynchook

import (
	"errors"
	"sync"
	"testing"
)

type countingHooks struct {
	mu      sync.Mutex
	evicted int
	expired int
	tags    int
	encode  int
	sweeps  int
}

func (c *countingHooks) EntryEvicted(string, string) {
	c.mu.Lock()
	c.evicted++
	c.mu.Unlock()
}

func (c *countingHooks) EntryExpired(string, string, string) {
	c.mu.Lock()
	c.expired++
	c.mu.Unlock()
}

func (c *countingHooks) TagInvalidated(string, int) {
	c.mu.Lock()
	c.tags++
	c.mu.Unlock()
}

func (c *countingHooks) KeyEncodeError(string, error) {
	c.mu.Lock()
	c.encode++
	c.mu.Unlock()
}

func (c *countingHooks) SweepError(error) {
	c.mu.Lock()
	c.sweeps++
	c.mu.Unlock()
}

func (c *countingHooks) totals() (evicted, expired, tags, encode, sweeps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evicted, c.expired, c.tags, c.encode, c.sweeps
}

// Close drains the queue, so everything enqueued before Close is delivered.
func TestAsyncDeliversAllBeforeClose(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 64)

	for i := 0; i < 10; i++ {
		h.EntryEvicted("ns", "k")
		h.EntryExpired("ns", "k", "sweep")
		h.TagInvalidated("tag", 1)
	}
	h.KeyEncodeError("ns", errors.New("bad key"))
	h.SweepError(errors.New("boom"))
	h.Close()

	evicted, expired, tags, encode, sweeps := inner.totals()
	if evicted != 10 || expired != 10 || tags != 10 || encode != 1 || sweeps != 1 {
		t.Fatalf("delivered %d/%d/%d/%d/%d want 10/10/10/1/1",
			evicted, expired, tags, encode, sweeps)
	}
}

// gatedHooks blocks event processing until gate opens, reporting each start.
type gatedHooks struct {
	countingHooks
	started chan struct{}
	gate    chan struct{}
}

func (g *gatedHooks) EntryEvicted(ns, key string) {
	g.started <- struct{}{}
	<-g.gate
	g.countingHooks.EntryEvicted(ns, key)
}

// A full queue drops events instead of blocking the caller.
func TestAsyncDropsOnOverflow(t *testing.T) {
	inner := &gatedHooks{
		started: make(chan struct{}, 8),
		gate:    make(chan struct{}),
	}
	h := New(inner, 1, 1)

	h.EntryEvicted("ns", "first")
	<-inner.started // worker is now blocked inside the first event

	h.EntryEvicted("ns", "second") // fills the queue
	h.EntryEvicted("ns", "third")  // must drop, not block

	close(inner.gate)
	h.Close()

	evicted, _, _, _, _ := inner.totals()
	if evicted != 2 {
		t.Fatalf("delivered %d events, want 2 (third dropped)", evicted)
	}
}

func TestAsyncCloseIdempotent(t *testing.T) {
	h := New(&countingHooks{}, 1, 4)
	h.Close()
	h.Close()
}
