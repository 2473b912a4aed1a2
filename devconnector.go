// Package devconnector wires accounts, tokens and developer profiles into a
// single Connector.
//
// Basic usage:
//
//	conn, err := devconnector.New(
//	    devconnector.WithSecret("your-256-bit-secret-of-32-chars!"),
//	    devconnector.WithStore(memory.New()),
//	)
//
// With PostgreSQL and argon2id:
//
//	conn, err := devconnector.New(
//	    devconnector.WithSecret(secret),
//	    devconnector.WithStore(postgresStore),
//	    devconnector.WithPasswordAlgorithm(password.AlgorithmArgon2id),
//	    devconnector.WithAutoMigrate(true),
//	)
package devconnector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aloks98/devconnector/account"
	"github.com/aloks98/devconnector/enrich"
	"github.com/aloks98/devconnector/password"
	"github.com/aloks98/devconnector/profile"
	"github.com/aloks98/devconnector/store"
	"github.com/aloks98/devconnector/token"
)

// Connector is the main entry point for devconnector functionality.
type Connector struct {
	config   *Config
	store    store.Store
	hasher   password.Hasher
	tokens   *token.Service
	accounts *account.Flow
	profiles *profile.Service
	github   *enrich.GitHub

	// mu protects concurrent access
	mu sync.RWMutex

	// closed indicates if the Connector has been closed
	closed bool
}

// New creates a Connector with the given options.
// At minimum, WithSecret and WithStore must be provided.
func New(opts ...Option) (*Connector, error) {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.store == nil {
		return nil, ErrStoreRequired
	}

	hasher := cfg.hasher
	if hasher == nil {
		h, err := password.NewHasher(cfg.PasswordAlgorithm)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
		hasher = h
	}

	tokens, err := token.NewService(&token.Config{
		Secret:        cfg.Secret,
		SigningMethod: string(cfg.SigningMethod),
		TTL:           cfg.TokenTTL,
		ClockSkew:     cfg.ClockSkew,
		Now:           cfg.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	if cfg.AutoMigrate {
		if err := cfg.store.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to migrate store: %w", err)
		}
	}

	profileOpts := []profile.Option{profile.WithClock(cfg.Now)}
	if cfg.sanitizerSet {
		profileOpts = append(profileOpts, profile.WithSanitizer(cfg.sanitizer))
	}

	return &Connector{
		config:   cfg,
		store:    cfg.store,
		hasher:   hasher,
		tokens:   tokens,
		accounts: account.NewFlow(cfg.store, hasher, tokens, account.WithClock(cfg.Now)),
		profiles: profile.NewService(cfg.store, profileOpts...),
		github:   enrich.NewGitHub(cfg.GitHub),
	}, nil
}

// Config returns the current configuration.
// The returned config should not be modified.
func (c *Connector) Config() *Config {
	return c.config
}

// Store returns the underlying store.
func (c *Connector) Store() store.Store {
	return c.store
}

// Hasher returns the password hasher.
func (c *Connector) Hasher() password.Hasher {
	return c.hasher
}

// Tokens returns the token service.
func (c *Connector) Tokens() *token.Service {
	return c.tokens
}

// Accounts returns the registration and login flow.
func (c *Connector) Accounts() *account.Flow {
	return c.accounts
}

// Profiles returns the profile service.
func (c *Connector) Profiles() *profile.Service {
	return c.profiles
}

// GitHub returns the repository lookup used for enrichment.
func (c *Connector) GitHub() *enrich.GitHub {
	return c.github
}

// TokenTTL returns how long issued tokens are valid.
func (c *Connector) TokenTTL() time.Duration {
	return c.tokens.TTL()
}

// Close releases the store. After Close is called, the Connector should
// not be used.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	return c.store.Close()
}

// Ping verifies the store connection is alive.
func (c *Connector) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}
