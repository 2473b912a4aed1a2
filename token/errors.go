package token

import "errors"

// Token-related errors.
var (
	// ErrInvalidToken indicates a bad signature, a malformed encoding or
	// claims that do not carry an identity.
	ErrInvalidToken = errors.New("token is not valid")

	// ErrExpiredToken indicates a correctly signed token past its expiry.
	ErrExpiredToken = errors.New("token has expired")

	// ErrSecretTooShort indicates a signing secret below MinSecretLength.
	ErrSecretTooShort = errors.New("token secret is too short")
)
