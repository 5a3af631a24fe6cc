// Package config loads process configuration from the environment.
//
// A configs/.env file is read first when present, then environment variables
// are mapped onto Config. JWT_SECRET and DATABASE_URL are required; startup
// fails without them.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. It is loaded once and read-only after.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"tourlog"`

	SeedDatabase      bool   `env:"SEED_DATABASE" envDefault:"false"`
	SeedAdminUsername string `env:"SEED_ADMIN_USERNAME" envDefault:"admin"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	LoginRatePerSecond float64 `env:"LOGIN_RATE_PER_SECOND" envDefault:"1"`
	LoginBurst         int     `env:"LOGIN_BURST" envDefault:"10"`
	RedisURL           string  `env:"REDIS_URL"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
}

// Load reads configs/.env (if any) and parses the environment
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return Parse()
}

// Parse maps the current environment onto a Config without touching .env files
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SeedDatabase && cfg.SeedAdminPassword == "" {
		return nil, fmt.Errorf("config: SEED_ADMIN_PASSWORD is required when SEED_DATABASE is enabled")
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
