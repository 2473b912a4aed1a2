package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devconnector.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "HS256", cfg.Auth.SigningMethod)
	assert.Equal(t, 100*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Auth.TokenQueryParam)
	assert.Empty(t, cfg.Auth.TokenCookie)
	assert.False(t, cfg.Profile.StripHTML, "free text is stored as submitted")

	// Everything but the secret is valid out of the box.
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSecret)

	cfg.Auth.Secret = testSecret
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":8080"
  read_timeout: 3s
log:
  level: debug
  format: text
auth:
  secret: `+testSecret+`
  token_ttl: 1h
  password_algorithm: argon2id
  token_query_param: token
  token_cookie: session
profile:
  strip_html: true
store:
  driver: postgres
  dsn: postgres://localhost/devconnector
  auto_migrate: true
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "argon2id", cfg.Auth.PasswordAlgorithm)
	assert.Equal(t, "token", cfg.Auth.TokenQueryParam)
	assert.Equal(t, "session", cfg.Auth.TokenCookie)
	assert.True(t, cfg.Profile.StripHTML)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Store.AutoMigrate)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "server:\n  addr: \":8080\"\nauth:\n  secret: "+testSecret+"\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--addr", ":9090", "--store", "redis", "--redis-addr", "localhost:6379"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
}

func TestLoad_UnchangedFlagsDoNotOverrideFile(t *testing.T) {
	path := writeFile(t, "server:\n  addr: \":8080\"\nauth:\n  secret: "+testSecret+"\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvSecret, testSecret)
	t.Setenv(EnvDatabaseURL, "postgres://env/devconnector")
	t.Setenv(EnvGitHubClientID, "id")
	t.Setenv(EnvGitHubClientSecret, "secret")

	path := writeFile(t, "store:\n  driver: postgres\n  dsn: postgres://file/devconnector\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.Auth.Secret)
	assert.Equal(t, "postgres://env/devconnector", cfg.Store.DSN)
	assert.Equal(t, "id", cfg.GitHub.ClientID)
	assert.Equal(t, "secret", cfg.GitHub.ClientSecret)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Auth.Secret = testSecret
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.Auth.Secret = "short" }},
		{"unknown signing method", func(c *Config) { c.Auth.SigningMethod = "RS256" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"unknown algorithm", func(c *Config) { c.Auth.PasswordAlgorithm = "md5" }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }},
		{"redis without addr", func(c *Config) { c.Store.Driver = DriverRedis }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = LogConfig{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = LogConfig{Level: "loud"}.SlogLevel()
	assert.Error(t, err)
}
