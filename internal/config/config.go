// Package config loads server settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverMinio  = "minio"

	minSecretLength = 32
	minBcryptCost   = 10
	maxBcryptCost   = 14
)

// Config contains server configuration parameters.
type Config struct {
	Port     string   `env:"PORT" envDefault:"5000"`
	LogLevel string   `env:"LOG_LEVEL" envDefault:"info"`
	Database Database `envPrefix:"DATABASE_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Bcrypt   Bcrypt   `envPrefix:"BCRYPT_"`
	Storage  Storage  `envPrefix:"STORAGE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	GitHub   GitHub   `envPrefix:"GITHUB_"`
	Limits   Limits   `envPrefix:"RATE_LIMIT_"`
}

// Database selects and configures the document store.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	Path   string `env:"PATH" envDefault:"dev-connect.db"`
	URI    string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Name   string `env:"NAME" envDefault:"devconnect"`
}

// JWT contains identity token parameters.
type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"3600s"`
}

// Bcrypt contains password hashing parameters.
type Bcrypt struct {
	Cost int `env:"COST" envDefault:"10"`
}

// Storage selects where uploaded images are kept. The sqlite driver keeps
// them next to the documents and is only valid with the sqlite database.
type Storage struct {
	Driver    string `env:"DRIVER" envDefault:"sqlite"`
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"devconnect-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"devconnect-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"devconnect-uploads"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Redis configures the shared rate limiter. An empty address keeps the
// limiter in process memory.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// GitHub configures the repository listing passthrough.
type GitHub struct {
	BaseURL string        `env:"API_URL" envDefault:"https://api.github.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Limits bounds how often a single client may hit the credential endpoints.
type Limits struct {
	Auth   int           `env:"AUTH" envDefault:"10"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// NewConfig loads configuration from environment variables and validates it.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if len(c.JWT.Secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLength)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Bcrypt.Cost < minBcryptCost || c.Bcrypt.Cost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", minBcryptCost, maxBcryptCost, c.Bcrypt.Cost)
	}

	if c.Limits.Auth <= 0 || c.Limits.Window <= 0 {
		return errors.New("RATE_LIMIT_AUTH and RATE_LIMIT_WINDOW must be positive")
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Database.Driver != DriverSQLite {
			return errors.New("STORAGE_DRIVER=sqlite requires DATABASE_DRIVER=sqlite")
		}
	case DriverMinio:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}
