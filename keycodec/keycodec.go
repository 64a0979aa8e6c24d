// Package keycodec turns structured cache keys into canonical bytes.
//
// A cache slot is identified by the canonical serialization of its key, so
// structurally equal keys must always produce identical bytes: stable field
// ordering, stable map-key ordering, no per-run state. Plain string keys never
// reach a Codec; the engine resolves them directly.
package keycodec

// Codec produces the canonical byte form of a structured key.
type Codec interface {
	CanonicalBytes(key any) ([]byte, error)
}

var defaultCodec = MustCBOR()

// Default returns the package default canonicalizer (deterministic CBOR).
func Default() Codec { return defaultCodec }
