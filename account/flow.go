// Package account implements registration, login and account lifecycle.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aloks98/devconnector/internal/hash"
	"github.com/aloks98/devconnector/password"
	"github.com/aloks98/devconnector/store"
	"github.com/aloks98/devconnector/token"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the user id does not resolve to an account.
	ErrUserNotFound = errors.New("user not found")
)

// dummyPassword is hashed once so unknown emails cost one verification.
const dummyPassword = "devconnector-timing-equalizer"

// Repository is the persistence the flow needs.
type Repository interface {
	store.UserStore
	DeleteProfile(ctx context.Context, ownerID string) error
}

// Issuer mints tokens for an identity. *token.Service satisfies it.
type Issuer interface {
	Issue(identity token.Identity, ttl time.Duration) (string, error)
}

// Option configures a Flow.
type Option func(*Flow)

// WithClock sets the time source for registration dates.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// WithIDGenerator sets the user id generator. Defaults to random UUIDs.
func WithIDGenerator(gen func() string) Option {
	return func(f *Flow) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// Flow orchestrates credential checks and token issuance.
type Flow struct {
	repo   Repository
	hasher password.Hasher
	issuer Issuer
	now    func() time.Time
	newID  func() string

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

// NewFlow creates a credential flow.
func NewFlow(repo Repository, hasher password.Hasher, issuer Issuer, opts ...Option) *Flow {
	f := &Flow{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AvatarURL returns the Gravatar URL for an email (200px, pg rated,
// mystery-person fallback). The path carries the SHA-256 digest of the
// normalized email, which Gravatar accepts alongside MD5, so URLs differ
// from ones built with an MD5 digest even though both resolve to the
// same image.
func AvatarURL(email string) string {
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return "//www.gravatar.com/avatar/" + hash.EmailDigest(email) + "?" + q.Encode()
}

// Register creates an account and returns a token for it.
func (f *Flow) Register(ctx context.Context, name, email, plaintext string) (string, error) {
	email = NormalizeEmail(email)

	existing, err := f.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", store.ErrDuplicateEmail
	}

	passwordHash, err := f.hasher.Hash(plaintext)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{
		ID:           f.newID(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Avatar:       AvatarURL(email),
		PasswordHash: passwordHash,
		Date:         f.now().UTC(),
	}
	if err := f.repo.CreateUser(ctx, user); err != nil {
		return "", err
	}

	return f.issuer.Issue(token.Identity{UserID: user.ID}, 0)
}

// Login checks the credential and returns a token for the account.
func (f *Flow) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := f.repo.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", err
	}

	if user == nil {
		// Spend the same work as a real verification.
		if h, err := f.dummy(); err == nil {
			_, _ = f.hasher.Verify(plaintext, h)
		}
		return "", ErrInvalidCredentials
	}

	ok, err := f.hasher.Verify(plaintext, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return f.issuer.Issue(token.Identity{UserID: user.ID}, 0)
}

// Me returns the account without its password hash.
func (f *Flow) Me(ctx context.Context, userID string) (*store.User, error) {
	user, err := f.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

// Delete removes the account's profile, then the account.
func (f *Flow) Delete(ctx context.Context, userID string) error {
	if err := f.repo.DeleteProfile(ctx, userID); err != nil {
		return err
	}
	return f.repo.DeleteUser(ctx, userID)
}

func (f *Flow) dummy() (string, error) {
	f.dummyOnce.Do(func() {
		f.dummyHash, f.dummyErr = f.hasher.Hash(dummyPassword)
	})
	return f.dummyHash, f.dummyErr
}
