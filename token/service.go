// Package token issues and verifies signed, time-limited identity tokens.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an issued token unless configured otherwise.
const DefaultTTL = 360000 * time.Second

// MinSecretLength is the minimum length of the HMAC signing secret.
const MinSecretLength = 32

// Identity is the authenticated principal carried inside a token.
type Identity struct {
	UserID string `json:"id"`
}

// Config holds configuration for the token service.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string

	// SigningMethod is the JWT algorithm: HS256 (default), HS384 or HS512.
	SigningMethod string

	// TTL is the token lifetime used when Issue is called without one.
	TTL time.Duration

	// ClockSkew is the leeway applied to the expiry check.
	ClockSkew time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Service issues and verifies identity tokens. It holds no mutable state
// and is safe for concurrent use.
type Service struct {
	secret    []byte
	method    *jwt.SigningMethodHMAC
	ttl       time.Duration
	clockSkew time.Duration
	now       func() time.Time
}

// NewService creates a new token service. The secret is copied; later
// changes to cfg have no effect on the service.
func NewService(cfg *Config) (*Service, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrSecretTooShort, MinSecretLength)
	}

	svc := &Service{
		secret:    []byte(cfg.Secret),
		ttl:       cfg.TTL,
		clockSkew: cfg.ClockSkew,
		now:       cfg.Now,
	}

	switch cfg.SigningMethod {
	case "", "HS256":
		svc.method = jwt.SigningMethodHS256
	case "HS384":
		svc.method = jwt.SigningMethodHS384
	case "HS512":
		svc.method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing method: %s", cfg.SigningMethod)
	}

	if svc.ttl <= 0 {
		svc.ttl = DefaultTTL
	}
	if svc.now == nil {
		svc.now = time.Now
	}

	return svc, nil
}

// TTL returns the default token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the identity that expires after ttl.
// A non-positive ttl uses the configured default.
func (s *Service) Issue(identity Identity, ttl time.Duration) (string, error) {
	if identity.UserID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrInvalidToken)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.sign(identity, ttl)
}

// Verify opens a token and returns the identity it carries.
// The signature is checked before any claim; a correctly signed token past
// its expiry yields ErrExpiredToken, anything else ErrInvalidToken.
func (s *Service) Verify(tokenString string) (Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.User.ID}, nil
}
