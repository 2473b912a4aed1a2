// Package hash provides hashing utilities.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256 computes the SHA256 hash of the input and returns it as a hex string.
func SHA256(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// EmailDigest returns the SHA256 hex digest of a normalized email address
// (surrounding whitespace trimmed, lower-cased).
func EmailDigest(email string) string {
	return SHA256(strings.ToLower(strings.TrimSpace(email)))
}
