// Package tagcache implements an in-process TTL cache with namespace
// isolation, tag-based bulk invalidation, and strict insertion-order (FIFO)
// eviction. Reads never promote an entry, so with a bound of N the cache
// always holds the N most recently inserted entries.
//
// Components:
//   - Entry store: one slot per (namespace, key); string keys are used
//     verbatim, structured keys are canonicalized by a keycodec.Codec and
//     digested, so structurally equal keys share a slot.
//   - Tag index: reverse map tag -> slots. DeleteByTag removes every entry
//     carrying the tag and reports how many went.
//   - TTL: absolute expiry computed at Set time, enforced lazily on access
//     and proactively by a background sweeper that Close stops.
//   - Stats: hit/miss/eviction/expiration counters with a derived hit rate.
//
// Read-through pattern:
//
//	v, ok, err := cache.Get("contact", id)
//	if err == nil && !ok {
//		v = loadFromBackend(id)
//		_ = cache.Set("contact", id, v, tagcache.DefaultTTL, "contact")
//	}
//
// A record mutation then clears everything derived from it:
//
//	_ = cache.Delete("contact", id)
//	cache.DeleteByTag("contact:list")
//
// The recordcache subpackage packages this pairing as a typed store.
package tagcache
