package tagcache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/tagcache/tagcache/internal/keyutil"
	"github.com/tagcache/tagcache/keycodec"
)

const (
	defaultMaxSize = 1000
	defaultTTL     = 5 * time.Minute
	defaultSweep   = time.Minute
)

// slotKey identifies one cache slot. Plain string keys keep their text;
// structured keys carry a canonical digest. The encoded flag keeps the two
// families apart so a string key can never collide with a digest.
type slotKey struct {
	ns      string
	encoded bool
	key     string
}

// entry is the stored record for one slot. seq is unique and monotonically
// increasing across the whole cache, including re-sets, so insertion order
// is total.
type entry[V any] struct {
	slot      slotKey
	value     V
	createdAt time.Time
	expiresAt time.Time
	tags      []string
	seq       uint64
}

type cache[V any] struct {
	log   Logger
	hooks Hooks
	codec keycodec.Codec

	enabled    bool
	defaultTTL time.Duration

	// guarded state. slots and order always hold the same entries:
	// order front = newest insertion, back = oldest.
	mu       sync.RWMutex
	maxSize  int
	slots    map[slotKey]*list.Element // element value is *entry[V]
	order    *list.List
	tags     map[string]map[slotKey]struct{}
	nsCounts map[string]int
	nextSeq  uint64

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
	lastCleanup time.Time

	now func() time.Time

	// background sweep
	sweepInterval time.Duration
	ticker        *time.Ticker
	stopCh        chan struct{}
	closeWg       sync.WaitGroup
	closeOnce     sync.Once
}

func newCache[V any](opts Options) (*cache[V], error) {
	if opts.MaxSize < 0 {
		return nil, fmt.Errorf("tagcache: max size must not be negative")
	}
	if opts.DefaultTTL < 0 {
		return nil, fmt.Errorf("tagcache: default ttl must not be negative")
	}

	c := &cache[V]{
		slots:    make(map[slotKey]*list.Element),
		order:    list.New(),
		tags:     make(map[string]map[slotKey]struct{}),
		nsCounts: make(map[string]int),
		now:      time.Now,
	}

	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.codec = coalesce[keycodec.Codec](opts.KeyCodec, keycodec.Default())
	c.maxSize = coalesce[int](opts.MaxSize, defaultMaxSize)
	c.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)
	c.sweepInterval = coalesce[time.Duration](opts.SweepInterval, defaultSweep)

	c.enabled = !opts.Disabled

	if c.enabled && c.sweepInterval > 0 {
		c.ticker = time.NewTicker(c.sweepInterval)
		c.stopCh = make(chan struct{})
		c.closeWg.Add(1)
		go c.sweepLoop()
	}
	return c, nil
}

func (c *cache[V]) Enabled() bool { return c.enabled }

// Close stops the background sweeper. The cache itself stays usable; only
// proactive expiry stops. Safe to call more than once.
func (c *cache[V]) Close() error {
	c.closeOnce.Do(func() {
		if c.stopCh != nil {
			close(c.stopCh)
			c.closeWg.Wait()
			c.ticker.Stop()
		}
	})
	return nil
}

func (c *cache[V]) Set(namespace string, key any, value V, ttl time.Duration, tags ...string) error {
	if !c.enabled {
		return nil
	}
	slot, err := c.slotFor(namespace, key)
	if err != nil {
		return err
	}
	now := c.now()
	e := &entry[V]{
		slot:      slot,
		value:     value,
		createdAt: now,
		expiresAt: now.Add(c.resolveTTL(ttl)),
		tags:      dedupTags(tags),
	}

	c.mu.Lock()
	if el, ok := c.slots[slot]; ok {
		// replace: the old entry's tags must not survive
		c.removeLocked(el)
	}
	e.seq = c.nextSeq
	c.nextSeq++
	c.slots[slot] = c.order.PushFront(e)
	c.nsCounts[slot.ns]++
	for _, tag := range e.tags {
		bucket, ok := c.tags[tag]
		if !ok {
			bucket = make(map[slotKey]struct{})
			c.tags[tag] = bucket
		}
		bucket[slot] = struct{}{}
	}
	evicted := c.evictOverflowLocked()
	c.mu.Unlock()

	for _, s := range evicted {
		c.hooks.EntryEvicted(s.ns, s.key)
	}
	return nil
}

func (c *cache[V]) Get(namespace string, key any) (V, bool, error) {
	var zero V
	if !c.enabled {
		return zero, false, nil
	}
	slot, err := c.slotFor(namespace, key)
	if err != nil {
		return zero, false, err
	}

	c.mu.Lock()
	el, ok := c.slots[slot]
	if !ok {
		c.misses++
		c.mu.Unlock()
		return zero, false, nil
	}
	e := el.Value.(*entry[V])
	if !e.expiresAt.After(c.now()) {
		c.removeLocked(el)
		c.expirations++
		c.misses++
		c.mu.Unlock()
		c.hooks.EntryExpired(slot.ns, slot.key, "get")
		return zero, false, nil
	}
	c.hits++
	v := e.value
	c.mu.Unlock()
	return v, true, nil
}

func (c *cache[V]) Delete(namespace string, key any) error {
	if !c.enabled {
		return nil
	}
	slot, err := c.slotFor(namespace, key)
	if err != nil {
		return err
	}

	var expired bool
	c.mu.Lock()
	if el, ok := c.slots[slot]; ok {
		// an entry past its TTL was already dead to readers; its removal
		// here counts as expiry, not as the delete
		expired = !el.Value.(*entry[V]).expiresAt.After(c.now())
		c.removeLocked(el)
		if expired {
			c.expirations++
		}
	}
	c.mu.Unlock()

	if expired {
		c.hooks.EntryExpired(slot.ns, slot.key, "delete")
	}
	return nil
}

func (c *cache[V]) DeleteByTag(tag string) int {
	if !c.enabled {
		return 0
	}

	c.mu.Lock()
	bucket := c.tags[tag]
	members := make([]slotKey, 0, len(bucket))
	for slot := range bucket {
		members = append(members, slot)
	}
	removed := 0
	for _, slot := range members {
		if el, ok := c.slots[slot]; ok {
			c.removeLocked(el)
			removed++
		}
	}
	delete(c.tags, tag)
	c.mu.Unlock()

	c.log.Debug("tag invalidated", Fields{"tag": tag, "removed": removed})
	c.hooks.TagInvalidated(tag, removed)
	return removed
}

func (c *cache[V]) Clear() {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	c.slots = make(map[slotKey]*list.Element)
	c.order.Init()
	c.tags = make(map[string]map[slotKey]struct{})
	c.nsCounts = make(map[string]int)
	c.hits, c.misses = 0, 0
	c.evictions, c.expirations = 0, 0
	c.lastCleanup = time.Time{}
	c.mu.Unlock()
}

func (c *cache[V]) SetMaxSize(n int) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	// n is taken literally; n <= 0 empties the cache and makes every
	// subsequent Set evict its own entry immediately
	c.maxSize = n
	evicted := c.evictOverflowLocked()
	c.mu.Unlock()

	if len(evicted) > 0 {
		c.log.Debug("max size lowered", Fields{"maxSize": n, "evicted": len(evicted)})
	}
	for _, s := range evicted {
		c.hooks.EntryEvicted(s.ns, s.key)
	}
}

func (c *cache[V]) Len() int {
	c.mu.RLock()
	n := len(c.slots)
	c.mu.RUnlock()
	return n
}

func (c *cache[V]) NamespaceSize(namespace string) int {
	c.mu.RLock()
	n := c.nsCounts[namespace]
	c.mu.RUnlock()
	return n
}

// Cleanup synchronously removes every entry whose TTL has passed and stamps
// LastCleanup. The background sweeper runs the same pass on its interval.
func (c *cache[V]) Cleanup() {
	if !c.enabled {
		return
	}
	c.cleanupPass()
}

func (c *cache[V]) Stats() Stats {
	c.mu.RLock()
	s := Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
		Size:        len(c.slots),
		LastCleanup: c.lastCleanup,
	}
	c.mu.RUnlock()
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// resolveTTL maps the DefaultTTL sentinel to the configured default. Any
// other non-positive ttl yields an expiresAt that has already passed.
func (c *cache[V]) resolveTTL(ttl time.Duration) time.Duration {
	if ttl == DefaultTTL {
		return c.defaultTTL
	}
	return ttl
}

// slotFor canonicalizes a key into its slot. String keys are used verbatim;
// anything else goes through the codec so structurally equal keys land on
// the same slot.
func (c *cache[V]) slotFor(namespace string, key any) (slotKey, error) {
	if s, ok := key.(string); ok {
		return slotKey{ns: namespace, key: s}, nil
	}
	b, err := c.codec.CanonicalBytes(key)
	if err != nil {
		serr := &SerializationError{Namespace: namespace, Key: key, Err: err}
		c.log.Debug("key canonicalization failed", Fields{"namespace": namespace, "err": err})
		c.hooks.KeyEncodeError(namespace, serr)
		return slotKey{}, serr
	}
	return slotKey{ns: namespace, encoded: true, key: keyutil.Digest(b)}, nil
}

// removeLocked unlinks an entry from the order list, the slot map, the
// namespace counters, and every tag bucket it was registered under.
// Empty tag buckets are dropped so the index never outlives its members.
func (c *cache[V]) removeLocked(el *list.Element) *entry[V] {
	e := c.order.Remove(el).(*entry[V])
	delete(c.slots, e.slot)
	if n := c.nsCounts[e.slot.ns] - 1; n > 0 {
		c.nsCounts[e.slot.ns] = n
	} else {
		delete(c.nsCounts, e.slot.ns)
	}
	for _, tag := range e.tags {
		if bucket, ok := c.tags[tag]; ok {
			delete(bucket, e.slot)
			if len(bucket) == 0 {
				delete(c.tags, tag)
			}
		}
	}
	return e
}

// evictOverflowLocked removes oldest-inserted entries until the size bound
// holds. Reads never reorder entries, so the back of the list is always the
// smallest insertion sequence.
func (c *cache[V]) evictOverflowLocked() []slotKey {
	var evicted []slotKey
	for len(c.slots) > c.maxSize {
		el := c.order.Back()
		if el == nil {
			break
		}
		e := c.removeLocked(el)
		c.evictions++
		evicted = append(evicted, e.slot)
	}
	return evicted
}

func (c *cache[V]) cleanupPass() int {
	now := c.now()

	c.mu.Lock()
	var expired []slotKey
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		e := el.Value.(*entry[V])
		if !e.expiresAt.After(now) {
			c.removeLocked(el)
			c.expirations++
			expired = append(expired, e.slot)
		}
		el = prev
	}
	c.lastCleanup = now
	c.mu.Unlock()

	for _, s := range expired {
		c.hooks.EntryExpired(s.ns, s.key, "sweep")
	}
	return len(expired)
}

func (c *cache[V]) sweepLoop() {
	defer c.closeWg.Done()
	for {
		select {
		case <-c.ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

// sweep runs one cleanup pass. A panic is contained and reported so one bad
// cycle never stops the schedule.
func (c *cache[V]) sweep() {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("sweep: %v", r)
			c.log.Error("cleanup pass failed", Fields{"err": err})
			c.hooks.SweepError(err)
		}
	}()
	if removed := c.cleanupPass(); removed > 0 {
		c.log.Debug("cleanup pass removed expired entries", Fields{"removed": removed})
	}
}

// dedupTags copies tags into a fresh slice, first occurrence wins, so stored
// tag sets never alias caller memory.
func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
