package devconnector

import (
	"fmt"
	"time"

	"github.com/aloks98/devconnector/enrich"
	"github.com/aloks98/devconnector/password"
	"github.com/aloks98/devconnector/profile"
	"github.com/aloks98/devconnector/store"
	"github.com/aloks98/devconnector/token"
)

// SigningMethod represents the JWT signing algorithm.
type SigningMethod string

const (
	// SigningMethodHS256 uses HMAC-SHA256 for signing (symmetric).
	SigningMethodHS256 SigningMethod = "HS256"

	// SigningMethodHS384 uses HMAC-SHA384 for signing (symmetric).
	SigningMethodHS384 SigningMethod = "HS384"

	// SigningMethodHS512 uses HMAC-SHA512 for signing (symmetric).
	SigningMethodHS512 SigningMethod = "HS512"
)

// Default configuration values.
const (
	DefaultTokenTTL          = token.DefaultTTL
	DefaultPasswordAlgorithm = password.AlgorithmBcrypt

	// MinSecretLength is the minimum required length for the secret key.
	MinSecretLength = token.MinSecretLength
)

// Config holds all configuration for a Connector.
type Config struct {
	// Secret is the key used for signing tokens.
	Secret string

	// SigningMethod is the JWT signing algorithm to use.
	SigningMethod SigningMethod

	// TokenTTL is how long issued tokens are valid.
	TokenTTL time.Duration

	// ClockSkew is the leeway allowed when checking token expiry.
	ClockSkew time.Duration

	// PasswordAlgorithm selects the default hasher: "bcrypt" or "argon2id".
	// Ignored when a hasher is set with WithPasswordHasher.
	PasswordAlgorithm string

	// AutoMigrate enables schema migration on startup.
	AutoMigrate bool

	// GitHub configures the repository lookup used for profile enrichment.
	GitHub enrich.GitHubConfig

	// Now is the clock used for tokens and document dates. Defaults to time.Now.
	Now func() time.Time

	store        store.Store
	hasher       password.Hasher
	sanitizer    profile.Sanitizer
	sanitizerSet bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		SigningMethod:     SigningMethodHS256,
		TokenTTL:          DefaultTokenTTL,
		PasswordAlgorithm: DefaultPasswordAlgorithm,
		AutoMigrate:       false,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.SigningMethod {
	case SigningMethodHS256, SigningMethodHS384, SigningMethodHS512:
	default:
		return fmt.Errorf("%w: unsupported signing method: %s", ErrConfigInvalid, c.SigningMethod)
	}

	if c.Secret == "" {
		return fmt.Errorf("%w: secret is required for HMAC signing", ErrConfigInvalid)
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("%w: secret must be at least %d characters", ErrConfigInvalid, MinSecretLength)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token TTL must be positive", ErrConfigInvalid)
	}
	if c.ClockSkew < 0 {
		return fmt.Errorf("%w: clock skew cannot be negative", ErrConfigInvalid)
	}

	if c.hasher == nil {
		switch c.PasswordAlgorithm {
		case password.AlgorithmBcrypt, password.AlgorithmArgon2id:
		default:
			return fmt.Errorf("%w: unsupported password algorithm: %q", ErrConfigInvalid, c.PasswordAlgorithm)
		}
	}

	return nil
}
