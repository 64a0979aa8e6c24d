package tagcache

import (
	"time"

	"github.com/tagcache/tagcache/keycodec"
)

// DefaultTTL as the ttl argument of Set selects the cache-wide default
// lifetime configured in Options.
//
// A ttl of exactly 0 is NOT the default: it stores an entry that is already
// expired and will miss on the very next read. Use it to pre-register tags
// for a slot without serving a value.
const DefaultTTL time.Duration = -1

// Cache is a namespace-partitioned, tag-indexed TTL cache holding values of
// type V in process memory. Eviction is strict insertion order (FIFO): when
// the size bound is exceeded, the oldest-inserted entry goes first and reads
// never promote an entry. Expiry is enforced lazily on access and by a
// periodic background sweep.
type Cache[V any] interface {
	Enabled() bool
	Close() error

	// Entry operations
	Set(namespace string, key any, value V, ttl time.Duration, tags ...string) error
	Get(namespace string, key any) (v V, ok bool, err error)
	Delete(namespace string, key any) error

	// Bulk invalidation
	DeleteByTag(tag string) int
	Clear()

	// Capacity & introspection
	SetMaxSize(n int)
	Len() int
	NamespaceSize(namespace string) int

	// Maintenance
	Cleanup()
	Stats() Stats
}

// Options tune the cache. The zero value is usable; every field has a
// default.
type Options struct {
	MaxSize       int           // entry bound; 0 => 1000
	DefaultTTL    time.Duration // applied when Set gets DefaultTTL; 0 => 5m
	SweepInterval time.Duration // background cleanup period; 0 => 1m, < 0 disables the sweeper

	KeyCodec keycodec.Codec // canonicalizer for non-string keys; nil => deterministic CBOR
	Logger   Logger         // if nil, NopLogger is used
	Hooks    Hooks          // if nil, NopHooks is used

	Disabled bool // default false (enabled); a disabled cache misses everything and stores nothing
}

// New builds a cache for values of type V. The value type is opaque to the
// engine: it is stored and returned, never inspected.
func New[V any](opts Options) (Cache[V], error) {
	return newCache[V](opts)
}
