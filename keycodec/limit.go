package keycodec

import "fmt"

// Limit wraps another Codec to enforce a maximum canonical key size.
// If MaxBytes <= 0, size limiting is disabled.
//
// Typical use: keep callers from accidentally using large documents as
// cache keys, which would make every lookup hash the whole document.
type Limit struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec
	// MaxBytes is the maximum permitted length of the canonical form. If the
	// canonical bytes exceed MaxBytes, CanonicalBytes returns an error.
	MaxBytes int
}

func (c Limit) CanonicalBytes(key any) ([]byte, error) {
	b, err := c.Inner.CanonicalBytes(key)
	if err != nil {
		return nil, err
	}
	if c.MaxBytes > 0 && len(b) > c.MaxBytes {
		return nil, fmt.Errorf("canonical key too large: %d > %d", len(b), c.MaxBytes)
	}
	return b, nil
}
