package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:      "development",
			Server:   ServerConfig{Port: "3000"},
			Database: DatabaseConfig{Driver: DriverPostgres, Host: "localhost", Name: "bank"},
			Auth: AuthConfig{
				JWTSecret:     "secret",
				RefreshSecret: "refresh",
				AccessTTL:     time.Minute,
				RefreshTTL:    time.Hour,
			},
			Logger: LoggerConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server port"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unknown database driver"},
		{name: "memory driver needs no host", mutate: func(c *Config) { c.Database.Driver = DriverMemory; c.Database.Host = "" }},
		{name: "missing db host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "database host"},
		{name: "default secret in production", mutate: func(c *Config) { c.Env = "production"; c.Auth.JWTSecret = defaultJWTSecret }, wantErr: "JWT_SECRET"},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.AccessTTL = 0 }, wantErr: "lifetimes"},
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "verbose" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoggerConfig_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := (&LoggerConfig{Level: "warn"}).newLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}
