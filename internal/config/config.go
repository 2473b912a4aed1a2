// Package config loads process configuration for the devconnector server
// from a YAML file, command line flags and DEVCONNECTOR_* environment variables,
// in increasing order of precedence for secrets.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/aloks98/devconnector/password"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Environment overrides.
const (
	EnvSecret             = "DEVCONNECTOR_SECRET"
	EnvDatabaseURL        = "DEVCONNECTOR_DATABASE_URL"
	EnvRedisAddr          = "DEVCONNECTOR_REDIS_ADDR"
	EnvRedisPassword      = "DEVCONNECTOR_REDIS_PASSWORD"
	EnvGitHubClientID     = "DEVCONNECTOR_GITHUB_CLIENT_ID"
	EnvGitHubClientSecret = "DEVCONNECTOR_GITHUB_CLIENT_SECRET"
	EnvLogLevel           = "DEVCONNECTOR_LOG_LEVEL"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	Auth   AuthConfig   `koanf:"auth"`
	Store   StoreConfig   `koanf:"store"`
	GitHub  GitHubConfig  `koanf:"github"`
	Profile ProfileConfig `koanf:"profile"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig configures slog.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is json or text.
	Format string `koanf:"format"`
}

// AuthConfig configures tokens and password hashing.
type AuthConfig struct {
	Secret            string        `koanf:"secret"`
	SigningMethod     string        `koanf:"signing_method"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	ClockSkew         time.Duration `koanf:"clock_skew"`
	PasswordAlgorithm string        `koanf:"password_algorithm"`

	// TokenQueryParam and TokenCookie name extra places a token is read
	// from after the x-auth-token and Authorization headers. Empty disables.
	TokenQueryParam string `koanf:"token_query_param"`
	TokenCookie     string `koanf:"token_cookie"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Driver        string `koanf:"driver"`
	DSN           string `koanf:"dsn"`
	MaxConns      int32  `koanf:"max_conns"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	AutoMigrate   bool   `koanf:"auto_migrate"`
}

// GitHubConfig configures the repository lookup.
type GitHubConfig struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	UserAgent    string        `koanf:"user_agent"`
	Timeout      time.Duration `koanf:"timeout"`
}

// ProfileConfig configures profile writes.
type ProfileConfig struct {
	// StripHTML removes markup from bios and entry descriptions before they
	// are stored.
	StripHTML bool `koanf:"strip_html"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":5000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Auth: AuthConfig{
			SigningMethod:     "HS256",
			TokenTTL:          360000 * time.Second,
			PasswordAlgorithm: password.AlgorithmBcrypt,
		},
		Store:  StoreConfig{Driver: DriverMemory},
		GitHub: GitHubConfig{UserAgent: "devconnector", Timeout: 10 * time.Second},
	}
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"addr":         "server.addr",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"store":        "store.driver",
	"dsn":          "store.dsn",
	"redis-addr":   "store.redis_addr",
	"auto-migrate": "store.auto_migrate",
	"token-ttl":    "auth.token_ttl",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("addr", d.Server.Addr, "HTTP listen address")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("log-format", d.Log.Format, "log format (json, text)")
	fs.String("store", d.Store.Driver, "document store (memory, redis, postgres)")
	fs.String("dsn", "", "PostgreSQL connection URL")
	fs.String("redis-addr", "", "Redis address (host:port)")
	fs.Bool("auto-migrate", d.Store.AutoMigrate, "apply schema migrations on startup")
	fs.Duration("token-ttl", d.Auth.TokenTTL, "lifetime of issued tokens")
}

// Load builds the configuration from defaults, the optional YAML file at
// path, explicitly set flags in fs and environment overrides. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Auth.Secret = getEnv(EnvSecret, c.Auth.Secret)
	c.Store.DSN = getEnv(EnvDatabaseURL, c.Store.DSN)
	c.Store.RedisAddr = getEnv(EnvRedisAddr, c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv(EnvRedisPassword, c.Store.RedisPassword)
	c.GitHub.ClientID = getEnv(EnvGitHubClientID, c.GitHub.ClientID)
	c.GitHub.ClientSecret = getEnv(EnvGitHubClientSecret, c.GitHub.ClientSecret)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Validate checks the configuration as a whole.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Log),
		validation.Field(&c.Auth),
		validation.Field(&c.Store),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks the listener settings.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
		validation.Field(&s.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.WriteTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

// Validate checks the log settings.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("json", "text")),
	)
}

// Validate checks the token and hashing settings.
func (a AuthConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Secret,
			validation.Required.Error(fmt.Sprintf("is required (set %s)", EnvSecret)),
			validation.Length(32, 0),
		),
		validation.Field(&a.SigningMethod, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&a.TokenTTL, validation.Required),
		validation.Field(&a.PasswordAlgorithm, validation.In(password.AlgorithmBcrypt, password.AlgorithmArgon2id)),
	)
}

// Validate checks that the selected driver has what it needs.
func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Driver, validation.Required, validation.In(DriverMemory, DriverRedis, DriverPostgres)),
		validation.Field(&s.DSN, validation.By(requiredFor(s.Driver, DriverPostgres))),
		validation.Field(&s.RedisAddr, validation.By(requiredFor(s.Driver, DriverRedis))),
	)
}

// requiredFor rejects an empty string when the selected driver is driver.
func requiredFor(selected, driver string) validation.RuleFunc {
	return func(value interface{}) error {
		if selected != driver {
			return nil
		}
		if s, _ := value.(string); s == "" {
			return fmt.Errorf("is required for the %s store", driver)
		}
		return nil
	}
}

// SlogLevel parses the configured log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", l.Level, err)
	}
	return level, nil
}
