package devconnector

import (
	"time"

	"github.com/aloks98/devconnector/enrich"
	"github.com/aloks98/devconnector/password"
	"github.com/aloks98/devconnector/profile"
	"github.com/aloks98/devconnector/store"
)

// Option is a function that modifies the configuration.
type Option func(*Config)

// WithSecret sets the secret key for HMAC signing.
// The secret must be at least 32 characters long.
func WithSecret(secret string) Option {
	return func(c *Config) {
		c.Secret = secret
	}
}

// WithTokenTTL sets the token time-to-live.
func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.TokenTTL = ttl
	}
}

// WithSigningMethod sets the JWT signing algorithm.
func WithSigningMethod(method SigningMethod) Option {
	return func(c *Config) {
		c.SigningMethod = method
	}
}

// WithClockSkew sets the leeway allowed when checking token expiry.
func WithClockSkew(skew time.Duration) Option {
	return func(c *Config) {
		c.ClockSkew = skew
	}
}

// WithAutoMigrate enables or disables schema migration on startup.
func WithAutoMigrate(enabled bool) Option {
	return func(c *Config) {
		c.AutoMigrate = enabled
	}
}

// WithPasswordAlgorithm selects the default password hasher by name.
func WithPasswordAlgorithm(algorithm string) Option {
	return func(c *Config) {
		c.PasswordAlgorithm = algorithm
	}
}

// WithGitHub configures the GitHub repository lookup.
func WithGitHub(cfg enrich.GitHubConfig) Option {
	return func(c *Config) {
		c.GitHub = cfg
	}
}

// WithClock sets the time source used for tokens and document dates.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithStore sets the document store for users and profiles.
// This is a required option.
func WithStore(s store.Store) Option {
	return func(c *Config) {
		c.store = s
	}
}

// WithPasswordHasher sets the password hashing algorithm.
func WithPasswordHasher(hasher password.Hasher) Option {
	return func(c *Config) {
		c.hasher = hasher
	}
}

// WithSanitizer replaces the HTML sanitizer applied to profile free text.
// A nil sanitizer disables sanitizing.
func WithSanitizer(s profile.Sanitizer) Option {
	return func(c *Config) {
		c.sanitizer = s
		c.sanitizerSet = true
	}
}
