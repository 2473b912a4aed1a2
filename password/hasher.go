// Package password provides one-way salted password hashing and verification.
package password

import (
	"errors"
	"fmt"
	"strings"
)

// Supported hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	// ErrCorruptCredential indicates a stored hash that cannot be decoded.
	// It should never occur with a correctly functioning store.
	ErrCorruptCredential = errors.New("stored credential is corrupt")

	// ErrPasswordTooLong indicates the plaintext exceeds what the algorithm can hash.
	ErrPasswordTooLong = errors.New("password is too long")
)

// Hasher defines the interface for password hashing algorithms.
type Hasher interface {
	// Hash creates a self-describing hash (algorithm, parameters and salt
	// are recoverable from the encoding).
	Hash(password string) (string, error)

	// Verify checks if a password matches a hash in constant time.
	// A mismatch returns (false, nil); a malformed hash returns ErrCorruptCredential.
	Verify(password, hash string) (bool, error)

	// NeedsRehash reports whether the hash was created with different parameters.
	NeedsRehash(hash string) bool
}

// NewHasher returns the hasher for the named algorithm with default parameters.
// An empty name selects bcrypt.
func NewHasher(algorithm string) (Hasher, error) {
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(nil), nil
	case AlgorithmArgon2id:
		return NewArgon2Hasher(nil), nil
	default:
		return nil, fmt.Errorf("unsupported password algorithm: %q", algorithm)
	}
}

// CorruptHashError reports a stored hash that cannot be decoded. It matches
// ErrCorruptCredential with errors.Is and unwraps to the decoding failure.
type CorruptHashError struct {
	Algorithm string
	Err       error
}

func (e *CorruptHashError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrCorruptCredential, e.Algorithm, e.Err)
}

func (e *CorruptHashError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCorruptCredential.
func (e *CorruptHashError) Is(target error) bool { return target == ErrCorruptCredential }

func corrupt(algorithm string, err error) error {
	return &CorruptHashError{Algorithm: algorithm, Err: err}
}
