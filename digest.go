package lsystemx

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the hex BLAKE3-256 of an expanded string. Two expansions are
// identical exactly when their digests match, which keeps large outputs out of
// logs and HTTP headers.
func Digest(symbols string) string {
	sum := blake3.Sum256([]byte(symbols))
	return hex.EncodeToString(sum[:])
}

// Histogram counts occurrences of each symbol.
func Histogram(symbols string) map[byte]int {
	h := make(map[byte]int)
	for i := 0; i < len(symbols); i++ {
		h[symbols[i]]++
	}
	return h
}
