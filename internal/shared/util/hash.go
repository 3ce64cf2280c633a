package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex sha256 of s. Reports store fingerprints of the
// submitted texts instead of the texts' identity.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
