// Package crypto provides cryptographic utilities.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomBytes generates n cryptographically secure random bytes.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateRandomHex generates a random hex string of the specified byte length.
// The returned string will be 2*byteLength characters.
func GenerateRandomHex(byteLength int) (string, error) {
	b, err := GenerateRandomBytes(byteLength)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
