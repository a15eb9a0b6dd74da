package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.ApiServicePort)
	assert.Equal(t, int64(5432), cfg.PostgreSQLPort)
	assert.Equal(t, int64(15), cfg.AccessTokenExpiryMinutes)
	assert.Equal(t, int64(7), cfg.RefreshTokenExpiryDays)
	assert.Equal(t, int64(60), cfg.TokenCleanupIntervalMins)
	assert.Equal(t, int64(6379), cfg.RedisPort)
	assert.Equal(t, int64(900), cfg.RevocationCacheTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("API_SERVICE_PORT", "9090")
	t.Setenv("JWT_SECRET", "a-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRY_MINUTES", "30")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.ApiServicePort)
	assert.Equal(t, "a-secret", cfg.JWTSecret)
	assert.Equal(t, int64(30), cfg.AccessTokenExpiryMinutes)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfig_BadIntFallsBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY_MINUTES", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, int64(15), cfg.AccessTokenExpiryMinutes)
}

func TestConfig_Validate(t *testing.T) {
	valid := &Config{
		JWTSecret:   "secret",
		JWTIssuer:   "issuer",
		JWTAudience: "audience",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"missing issuer", func(c *Config) { c.JWTIssuer = "" }, "JWT_ISSUER"},
		{"missing audience", func(c *Config) { c.JWTAudience = "" }, "JWT_AUDIENCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}

	t.Run("all missing lists every key", func(t *testing.T) {
		err := (&Config{}).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Contains(t, err.Error(), "JWT_ISSUER")
		assert.Contains(t, err.Error(), "JWT_AUDIENCE")
	})
}
