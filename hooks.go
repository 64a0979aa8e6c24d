package tagcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths, outside its internal lock.
type Hooks interface {
	// An entry was removed by capacity pressure (oldest-in evicted first).
	// key is the slot token: the key text for string keys, the canonical
	// digest for structured keys.
	EntryEvicted(namespace, key string)

	// An entry past its TTL was removed.
	// reason ∈ {"get", "delete", "sweep"}
	EntryExpired(namespace, key, reason string)

	// DeleteByTag removed `removed` entries registered under tag.
	// Fired even when removed == 0.
	TagInvalidated(tag string, removed int)

	// A structured key could not be canonicalized; the operation failed
	// with a *SerializationError.
	KeyEncodeError(namespace string, err error)

	// A cleanup pass aborted (recovered panic). The schedule continues.
	SweepError(err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) EntryEvicted(string, string)         {}
func (NopHooks) EntryExpired(string, string, string) {}
func (NopHooks) TagInvalidated(string, int)          {}
func (NopHooks) KeyEncodeError(string, error)        {}
func (NopHooks) SweepError(error)                    {}
