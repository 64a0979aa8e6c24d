// Package recordcache is a typed convenience layer over a shared
// tagcache.Cache[any] for one kind of record (contacts, deals, saved
// queries, ...).
//
// Records live in the kind's namespace and carry the kind tag. Cached list
// results live in their own namespace and additionally carry the kind's
// list tag, so mutating one record can invalidate every cached list in a
// single call and list views stay read-your-writes consistent.
package recordcache

import (
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tagcache/tagcache"
	"github.com/tagcache/tagcache/internal/keyutil"
	"github.com/tagcache/tagcache/keycodec"
)

// Store caches records of type V under a fixed kind. Several stores of
// different kinds can share one cache; the kind keeps their entries apart.
type Store[V any] struct {
	cache tagcache.Cache[any]
	kind  string
	ttl   time.Duration
	lttl  time.Duration
	codec keycodec.Codec
	group singleflight.Group
}

// Options tune a Store. The zero value is usable.
type Options struct {
	TTL     time.Duration // record lifetime; 0 => the cache's default
	ListTTL time.Duration // list lifetime; 0 => TTL
	// KeyCodec canonicalizes structured ids for fetch deduplication only;
	// nil => deterministic CBOR. Entry slots always use the cache's codec.
	KeyCodec keycodec.Codec
}

func New[V any](cache tagcache.Cache[any], kind string, opts Options) (*Store[V], error) {
	if cache == nil {
		return nil, fmt.Errorf("recordcache: cache is required")
	}
	if kind == "" {
		return nil, fmt.Errorf("recordcache: kind is required")
	}
	s := &Store[V]{
		cache: cache,
		kind:  kind,
		ttl:   opts.TTL,
		lttl:  opts.ListTTL,
		codec: opts.KeyCodec,
	}
	if s.ttl == 0 {
		s.ttl = tagcache.DefaultTTL
	}
	if s.lttl == 0 {
		s.lttl = s.ttl
	}
	if s.codec == nil {
		s.codec = keycodec.Default()
	}
	return s, nil
}

// Kind returns the store's record kind, which is also its kind tag.
func (s *Store[V]) Kind() string { return s.kind }

// ListTag returns the tag carried by every cached list of this kind.
func (s *Store[V]) ListTag() string { return s.kind + ":list" }

// Get returns the cached record under id. A value of a foreign type under
// our id (possible on a shared cache) is dropped and reported as a miss.
func (s *Store[V]) Get(id any) (V, bool, error) {
	var zero V
	raw, ok, err := s.cache.Get(s.kind, id)
	if err != nil || !ok {
		return zero, false, err
	}
	v, ok := raw.(V)
	if !ok {
		_ = s.cache.Delete(s.kind, id)
		return zero, false, nil
	}
	return v, true, nil
}

func (s *Store[V]) Set(id any, v V) error {
	return s.cache.Set(s.kind, id, v, s.ttl, s.kind)
}

// GetList returns the cached result set for a query key, which may be a
// plain string or any deterministically serializable value.
func (s *Store[V]) GetList(query any) ([]V, bool, error) {
	raw, ok, err := s.cache.Get(s.ListTag(), query)
	if err != nil || !ok {
		return nil, false, err
	}
	items, ok := raw.([]V)
	if !ok {
		_ = s.cache.Delete(s.ListTag(), query)
		return nil, false, nil
	}
	return items, true, nil
}

func (s *Store[V]) SetList(query any, items []V) error {
	return s.cache.Set(s.ListTag(), query, items, s.lttl, s.kind, s.ListTag())
}

// Invalidate removes one record and every cached list of this kind. Call it
// after mutating the record so stale list results cannot be served.
func (s *Store[V]) Invalidate(id any) error {
	if err := s.cache.Delete(s.kind, id); err != nil {
		return err
	}
	s.cache.DeleteByTag(s.ListTag())
	return nil
}

// InvalidateAll drops every entry of this kind, records and lists alike,
// and reports how many were removed.
func (s *Store[V]) InvalidateAll() int {
	return s.cache.DeleteByTag(s.kind)
}

// GetOrFetch returns the cached record or loads it with fetch, caching the
// result. Concurrent calls for the same id share a single fetch. Fetch
// errors are returned and never cached.
func (s *Store[V]) GetOrFetch(id any, fetch func() (V, error)) (V, error) {
	var zero V
	if v, ok, err := s.Get(id); err != nil {
		return zero, err
	} else if ok {
		return v, nil
	}

	key, err := s.flightKey(id)
	if err != nil {
		return zero, err
	}
	res, err, _ := s.group.Do(key, func() (any, error) {
		// another flight may have filled the slot while we queued
		if v, ok, err := s.Get(id); err == nil && ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		if err := s.Set(id, v); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(V), nil
}

// Stats reports the statistics of the underlying cache, shared by every
// store on it.
func (s *Store[V]) Stats() tagcache.Stats { return s.cache.Stats() }

func (s *Store[V]) flightKey(id any) (string, error) {
	if k, ok := id.(string); ok {
		return k, nil
	}
	b, err := s.codec.CanonicalBytes(id)
	if err != nil {
		return "", &tagcache.SerializationError{Namespace: s.kind, Key: id, Err: err}
	}
	return keyutil.Digest(b), nil
}
