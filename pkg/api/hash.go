package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ContentHash returns a deterministic BLAKE3 hash over the given parts.
// Parts are NUL-delimited so ("ab","c") and ("a","bc") differ.
func ContentHash(parts ...string) string {
	h := blake3.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortID trims a content hash for display.
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
