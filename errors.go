package devconnector

import (
	"errors"
	"fmt"

	"github.com/aloks98/devconnector/account"
	"github.com/aloks98/devconnector/enrich"
	"github.com/aloks98/devconnector/middleware"
	"github.com/aloks98/devconnector/password"
	"github.com/aloks98/devconnector/profile"
	"github.com/aloks98/devconnector/store"
	"github.com/aloks98/devconnector/token"
)

// Error codes for categorizing errors.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeMissingToken       = "TOKEN_MISSING"
	CodeInvalidToken       = "TOKEN_INVALID"
	CodeExpiredToken       = "TOKEN_EXPIRED"
	CodeCorruptCredential  = "CREDENTIAL_CORRUPT"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodeStoreRequired      = "STORE_REQUIRED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeEnrichmentNotFound = "ENRICHMENT_NOT_FOUND"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeEntryNotFound      = "ENTRY_NOT_FOUND"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeInternal           = "INTERNAL"
)

// Sentinel errors for use with errors.Is(). Most alias the sentinel of the
// package that raises them, so either name matches.
var (
	// Input errors
	ErrValidationFailed = errors.New("validation failed")

	// Credential errors
	ErrDuplicateEmail     = store.ErrDuplicateEmail
	ErrInvalidCredentials = account.ErrInvalidCredentials
	ErrUserNotFound       = account.ErrUserNotFound
	ErrOwnerNotFound      = store.ErrOwnerNotFound
	ErrCorruptCredential  = password.ErrCorruptCredential
	ErrPasswordTooLong    = password.ErrPasswordTooLong

	// Token errors
	ErrMissingToken = middleware.ErrMissingToken
	ErrInvalidToken = token.ErrInvalidToken
	ErrExpiredToken = token.ErrExpiredToken

	// Store errors
	ErrStoreRequired    = errors.New("store is required")
	ErrStoreUnavailable = store.ErrStoreUnavailable

	// Profile errors
	ErrProfileNotFound    = profile.ErrProfileNotFound
	ErrEntryNotFound      = profile.ErrEntryNotFound
	ErrEnrichmentNotFound = enrich.ErrNotFound

	// Config errors
	ErrConfigInvalid = errors.New("configuration is invalid")
)

// codes maps sentinels to codes, most specific first.
var codes = []struct {
	err  error
	code string
}{
	{ErrValidationFailed, CodeValidationFailed},
	{ErrDuplicateEmail, CodeDuplicateEmail},
	{ErrInvalidCredentials, CodeInvalidCredentials},
	{ErrUserNotFound, CodeUserNotFound},
	{ErrOwnerNotFound, CodeUserNotFound},
	{ErrCorruptCredential, CodeCorruptCredential},
	{ErrPasswordTooLong, CodePasswordTooLong},
	{ErrMissingToken, CodeMissingToken},
	{ErrExpiredToken, CodeExpiredToken},
	{ErrInvalidToken, CodeInvalidToken},
	{ErrStoreRequired, CodeStoreRequired},
	{ErrStoreUnavailable, CodeStoreUnavailable},
	{ErrProfileNotFound, CodeProfileNotFound},
	{ErrEntryNotFound, CodeEntryNotFound},
	{ErrEnrichmentNotFound, CodeEnrichmentNotFound},
	{ErrConfigInvalid, CodeConfigInvalid},
}

// AuthError is a structured error type that includes an error code and optional wrapped error.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code, message, and optional wrapped error.
func NewAuthError(code, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WrapError wraps err in an AuthError whose code is derived from it.
func WrapError(err error, message string) *AuthError {
	return &AuthError{
		Code:    ErrorCode(err),
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the machine-readable code for err. An AuthError anywhere
// in the chain wins; otherwise the first matching sentinel decides.
// Unrecognized errors are CodeInternal.
func ErrorCode(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Code != "" {
		return authErr.Code
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// IsTokenError returns true if the error is a token-related error.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}

// IsCredentialError returns true if the error is a client-side credential error.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrDuplicateEmail)
}

// IsNotFound returns true if the error reports an absent document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrOwnerNotFound) ||
		errors.Is(err, ErrEnrichmentNotFound)
}

// IsConfigError returns true if the error is a configuration-related error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid) ||
		errors.Is(err, ErrStoreRequired)
}
