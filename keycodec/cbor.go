package keycodec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOR canonicalizes keys with CBOR core deterministic encoding
// (RFC 8949 §4.2.1): shortest-form integers and sorted map keys, so the
// same key value always yields the same bytes.
type CBOR struct {
	enc cbor.EncMode
}

var _ Codec = CBOR{}

// NewCBOR builds a deterministic CBOR canonicalizer.
func NewCBOR() (CBOR, error) {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em}, nil
}

// MustCBOR is NewCBOR, panicking on configuration error.
func MustCBOR() CBOR {
	c, err := NewCBOR()
	if err != nil {
		panic("keycodec: cbor enc mode: " + err.Error())
	}
	return c
}

func (c CBOR) CanonicalBytes(key any) ([]byte, error) {
	return c.enc.Marshal(key)
}
