package keycodec

import (
	"encoding/json"
)

// JSON canonicalizes keys as JSON. encoding/json already sorts map keys and
// emits struct fields in declaration order, which is stable within a build.
// The zero value is ready to use.
type JSON struct{}

func (JSON) CanonicalBytes(key any) ([]byte, error) {
	return json.Marshal(key)
}
