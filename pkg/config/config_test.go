package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("BCRYPT_COST", "6")
	t.Setenv("DB_NAME", "todo_test")
	t.Setenv("NATS_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 6, cfg.Auth.BcryptCost)
	assert.Equal(t, "todo_test", cfg.Database.DBName)
	assert.Equal(t, "todo", cfg.NATS.SubjectPrefix)
	assert.Contains(t, cfg.Database.DSN(), "dbname=todo_test")
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "soon")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWT:  JWTConfig{Secret: testSecret, TTL: time.Hour},
			Auth: AuthConfig{BcryptCost: 10, LoginRateLimit: 5, LoginRateWindow: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "JWT_SECRET"},
		{"zero ttl", func(c *Config) { c.JWT.TTL = 0 }, "JWT_TTL"},
		{"negative ttl", func(c *Config) { c.JWT.TTL = -time.Second }, "JWT_TTL"},
		{"cost too high", func(c *Config) { c.Auth.BcryptCost = 40 }, "BCRYPT_COST"},
		{"limiter without window", func(c *Config) { c.Auth.LoginRateWindow = 0 }, "LOGIN_RATE_WINDOW"},
		{"limiter disabled", func(c *Config) { c.Auth.LoginRateLimit = 0; c.Auth.LoginRateWindow = 0 }, ""},
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
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
