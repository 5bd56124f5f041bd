package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// DeckDigest returns the hex BLAKE3 hash of a rendered deck. Empty input
// yields an empty digest.
func DeckDigest(html string) string {
	if html == "" {
		return ""
	}
	sum := blake3.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

// ShortDigest is the first 12 hex characters of DeckDigest.
func ShortDigest(html string) string {
	d := DeckDigest(html)
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
