package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "dev-connect.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10, cfg.Bcrypt.Cost)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 10, cfg.Limits.Auth)
	assert.Equal(t, time.Minute, cfg.Limits.Window)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DRIVER", "mongo")
	t.Setenv("DATABASE_URI", "mongodb://db:27017")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("STORAGE_BUCKET_NAME", "uploads")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	assert.Equal(t, DriverMinio, cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.Bucket)
	assert.Equal(t, 12, cfg.Bcrypt.Cost)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestNewConfig_ParseError(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := NewConfig()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWT:      JWT{Secret: testSecret, TTL: time.Hour},
			Bcrypt:   Bcrypt{Cost: 10},
			Database: Database{Driver: DriverSQLite},
			Storage:  Storage{Driver: DriverSQLite},
			Limits:   Limits{Auth: 10, Window: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET environment variable is required"},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32 characters"},
		{"zero ttl", func(c *Config) { c.JWT.TTL = 0 }, "JWT_TTL"},
		{"cost too low", func(c *Config) { c.Bcrypt.Cost = 4 }, "BCRYPT_COST"},
		{"cost too high", func(c *Config) { c.Bcrypt.Cost = 15 }, "BCRYPT_COST"},
		{"zero rate limit", func(c *Config) { c.Limits.Auth = 0 }, "RATE_LIMIT"},
		{"zero rate window", func(c *Config) { c.Limits.Window = 0 }, "RATE_LIMIT"},
		{"unknown database", func(c *Config) { c.Database.Driver = "postgres" }, "DATABASE_DRIVER"},
		{"unknown storage", func(c *Config) { c.Storage.Driver = "s3" }, "STORAGE_DRIVER"},
		{"sqlite storage on mongo", func(c *Config) { c.Database.Driver = DriverMongo }, "requires DATABASE_DRIVER=sqlite"},
		{"minio storage on mongo", func(c *Config) {
			c.Database.Driver = DriverMongo
			c.Storage.Driver = DriverMinio
		}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
