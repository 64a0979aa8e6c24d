package keycodec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack canonicalizes keys as MessagePack with sorted map keys.
// The zero value is ready to use.
type Msgpack struct{}

func (Msgpack) CanonicalBytes(key any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(key); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
