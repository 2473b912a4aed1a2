package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aloks98/devconnector/internal/hash"
	"github.com/aloks98/devconnector/password"
	"github.com/aloks98/devconnector/store"
	"github.com/aloks98/devconnector/store/memory"
	"github.com/aloks98/devconnector/token"
)

// countingHasher records calls to the wrapped hasher.
type countingHasher struct {
	password.Hasher
	verifies int
}

func (h *countingHasher) Verify(plaintext, hash string) (bool, error) {
	h.verifies++
	return h.Hasher.Verify(plaintext, hash)
}

type fixture struct {
	flow   *Flow
	store  *memory.Store
	tokens *token.Service
	hasher *countingHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := token.NewService(&token.Config{Secret: "this-is-a-32-character-secret!!!"})
	require.NoError(t, err)

	st := memory.New()
	hasher := &countingHasher{Hasher: password.NewBcryptHasher(&password.BcryptConfig{Cost: bcrypt.MinCost})}
	flow := NewFlow(st, hasher, tokens,
		WithClock(func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }))

	return &fixture{flow: flow, store: st, tokens: tokens, hasher: hasher}
}

func TestRegister_IssuesTokenForNewCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	raw, err := f.flow.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	id, err := f.tokens.Verify(raw)
	require.NoError(t, err)

	user, err := f.store.FindUserByID(ctx, id.UserID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@x.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Equal(t, AvatarURL("ana@x.com"), user.Avatar)
	assert.Equal(t, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), user.Date)

	ok, err := f.hasher.Hasher.Verify("secret1", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.flow.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	_, err = f.flow.Register(ctx, "Ana Again", " ANA@x.com ", "secret2")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newFixture(t)

	_, err := f.flow.Register(context.Background(), "Ana", "ana@x.com", strings.Repeat("a", 73))
	assert.ErrorIs(t, err, password.ErrPasswordTooLong)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.flow.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	raw, err := f.flow.Login(ctx, "Ana@X.com", "secret1")
	require.NoError(t, err)
	id, err := f.tokens.Verify(raw)
	require.NoError(t, err)
	assert.NotEmpty(t, id.UserID)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.flow.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := f.flow.Login(ctx, "ana@x.com", "wrong")
	_, unknownEmail := f.flow.Login(ctx, "nobody@x.com", "x")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.True(t, wrongPassword == unknownEmail, "identical error values")
	assert.Equal(t, 2, f.hasher.verifies, "unknown email still runs one verification")
}

func TestLogin_CorruptHashIsNotInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.CreateUser(ctx, &store.User{ID: "u-1", Email: "ana@x.com", PasswordHash: "not-a-hash"}))

	_, err := f.flow.Login(ctx, "ana@x.com", "secret1")

	assert.ErrorIs(t, err, password.ErrCorruptCredential)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	raw, err := f.flow.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	id, err := f.tokens.Verify(raw)
	require.NoError(t, err)

	user, err := f.flow.Me(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = f.flow.Me(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete_RemovesProfileThenUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	raw, err := f.flow.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	id, err := f.tokens.Verify(raw)
	require.NoError(t, err)
	require.NoError(t, f.store.UpsertProfile(ctx, &store.Profile{UserID: id.UserID, Status: "Developer"}))

	require.NoError(t, f.flow.Delete(ctx, id.UserID))

	p, err := f.store.FindProfileByOwner(ctx, id.UserID)
	require.NoError(t, err)
	assert.Nil(t, p)
	u, err := f.store.FindUserByID(ctx, id.UserID)
	require.NoError(t, err)
	assert.Nil(t, u)

	// The email can be registered again.
	_, err = f.flow.Register(ctx, "Ana", "ana@x.com", "secret1")
	assert.NoError(t, err)
}

func TestStoreUnavailablePropagates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Close())

	_, err := f.flow.Login(context.Background(), "ana@x.com", "secret1")
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.Zero(t, f.hasher.verifies)
}

func TestAvatarURL(t *testing.T) {
	url := AvatarURL(" Ana@X.com ")

	assert.Equal(t, AvatarURL("ana@x.com"), url)
	assert.True(t, strings.HasPrefix(url, "//www.gravatar.com/avatar/"))
	assert.True(t, strings.HasSuffix(url, "?d=mm&r=pg&s=200"))

	digest := strings.TrimSuffix(strings.TrimPrefix(url, "//www.gravatar.com/avatar/"), "?d=mm&r=pg&s=200")
	assert.Len(t, digest, 64, "sha-256 hex digest")
	assert.Equal(t, hash.EmailDigest("ana@x.com"), digest)
}

func TestWithIDGenerator(t *testing.T) {
	f := newFixture(t)
	flow := NewFlow(f.store, f.hasher, f.tokens, WithIDGenerator(func() string { return "fixed-id" }))

	raw, err := flow.Register(context.Background(), "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	id, err := f.tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id.UserID)
}
