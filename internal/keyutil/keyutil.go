package keyutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest maps canonical key bytes to a fixed-width slot token.
// 32 hex chars (128 bits) keeps slots short regardless of key size while
// making accidental collisions between distinct keys a non-concern.
func Digest(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:16])
}
