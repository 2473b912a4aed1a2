package devconnector

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aloks98/devconnector/account"
	"github.com/aloks98/devconnector/store"
	"github.com/aloks98/devconnector/token"
)

func TestAuthError_Error(t *testing.T) {
	withWrapped := &AuthError{Code: CodeExpiredToken, Message: "token has expired", Err: ErrExpiredToken}
	without := &AuthError{Code: CodeProfileNotFound, Message: "no profile"}

	assert.Equal(t, "TOKEN_EXPIRED: token has expired: "+ErrExpiredToken.Error(), withWrapped.Error())
	assert.Equal(t, "PROFILE_NOT_FOUND: no profile", without.Error())
}

func TestAuthError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	authErr := NewAuthError(CodeInternal, "boom", underlying)

	assert.Same(t, underlying, authErr.Unwrap())
	assert.ErrorIs(t, authErr, underlying)
}

func TestSentinelsAliasPackageErrors(t *testing.T) {
	assert.ErrorIs(t, fmt.Errorf("x: %w", store.ErrDuplicateEmail), ErrDuplicateEmail)
	assert.ErrorIs(t, account.ErrInvalidCredentials, ErrInvalidCredentials)
	assert.ErrorIs(t, token.ErrExpiredToken, ErrExpiredToken)
	assert.ErrorIs(t, store.Unavailable(errors.New("down")), ErrStoreUnavailable)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrValidationFailed, CodeValidationFailed},
		{fmt.Errorf("register: %w", ErrDuplicateEmail), CodeDuplicateEmail},
		{ErrInvalidCredentials, CodeInvalidCredentials},
		{ErrMissingToken, CodeMissingToken},
		{ErrExpiredToken, CodeExpiredToken},
		{fmt.Errorf("%w: bad signature", ErrInvalidToken), CodeInvalidToken},
		{store.Unavailable(errors.New("dial tcp")), CodeStoreUnavailable},
		{ErrEntryNotFound, CodeEntryNotFound},
		{fmt.Errorf("upsert profile: %w", store.ErrOwnerNotFound), CodeUserNotFound},
		{ErrEnrichmentNotFound, CodeEnrichmentNotFound},
		{errors.New("something else"), CodeInternal},
		{NewAuthError("CUSTOM", "custom", ErrProfileNotFound), "CUSTOM"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err), "%v", tt.err)
	}
}

func TestWrapError(t *testing.T) {
	err := WrapError(ErrProfileNotFound, "loading profile")

	assert.Equal(t, CodeProfileNotFound, err.Code)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, IsTokenError(ErrMissingToken))
	assert.True(t, IsTokenError(ErrExpiredToken))
	assert.False(t, IsTokenError(ErrInvalidCredentials))

	assert.True(t, IsCredentialError(ErrInvalidCredentials))
	assert.True(t, IsCredentialError(ErrDuplicateEmail))

	assert.True(t, IsNotFound(ErrEntryNotFound))
	assert.True(t, IsNotFound(ErrEnrichmentNotFound))
	assert.True(t, IsNotFound(ErrOwnerNotFound))
	assert.False(t, IsNotFound(ErrStoreUnavailable))

	assert.True(t, IsConfigError(fmt.Errorf("%w: short secret", ErrConfigInvalid)))
	assert.True(t, IsConfigError(ErrStoreRequired))
}
