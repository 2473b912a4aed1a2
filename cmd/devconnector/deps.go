package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/samber/oops"

	"github.com/aloks98/devconnector"
	"github.com/aloks98/devconnector/enrich"
	"github.com/aloks98/devconnector/internal/config"
	"github.com/aloks98/devconnector/middleware"
	"github.com/aloks98/devconnector/profile"
	"github.com/aloks98/devconnector/store"
	"github.com/aloks98/devconnector/store/memory"
	"github.com/aloks98/devconnector/store/postgres"
	redisstore "github.com/aloks98/devconnector/store/redis"
)

// openStore connects the document store the configuration selects.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverRedis:
		s, err := redisstore.New(&redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.Driver).Wrap(err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, &postgres.Config{DSN: cfg.DSN, MaxConns: cfg.MaxConns})
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.Driver).Wrap(err)
		}
		return s, nil
	default:
		return nil, oops.Code("CONFIG_INVALID").Errorf("unknown store driver: %q", cfg.Driver)
	}
}

// connectorOptions translates process configuration into connector options.
func connectorOptions(cfg config.Config, s store.Store) []devconnector.Option {
	opts := []devconnector.Option{
		devconnector.WithSecret(cfg.Auth.Secret),
		devconnector.WithSigningMethod(devconnector.SigningMethod(cfg.Auth.SigningMethod)),
		devconnector.WithTokenTTL(cfg.Auth.TokenTTL),
		devconnector.WithClockSkew(cfg.Auth.ClockSkew),
		devconnector.WithPasswordAlgorithm(cfg.Auth.PasswordAlgorithm),
		devconnector.WithAutoMigrate(cfg.Store.AutoMigrate),
		devconnector.WithStore(s),
		devconnector.WithGitHub(enrich.GitHubConfig{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			UserAgent:    cfg.GitHub.UserAgent,
			Timeout:      cfg.GitHub.Timeout,
		}),
	}
	if cfg.Profile.StripHTML {
		opts = append(opts, devconnector.WithSanitizer(profile.NewTagStripper()))
	}
	return opts
}

// tokenExtractor reads tokens from the headers plus any configured query
// parameter or cookie.
func tokenExtractor(cfg config.AuthConfig) middleware.TokenExtractor {
	var extra []middleware.TokenExtractor
	if cfg.TokenQueryParam != "" {
		extra = append(extra, middleware.ExtractFromQuery(cfg.TokenQueryParam))
	}
	if cfg.TokenCookie != "" {
		extra = append(extra, middleware.ExtractFromCookie(cfg.TokenCookie))
	}
	return middleware.DefaultExtractor(extra...)
}

// newLogger builds the process logger.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}
