// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the calculator service.
type Config struct {
	Addr             string        `env:"CALC_ADDR" envDefault:":8080"`
	ServiceName      string        `env:"OTEL_SERVICE_NAME" envDefault:"keypad-calculator"`
	ShutdownTimeout  time.Duration `env:"CALC_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	TelemetryEnabled bool          `env:"CALC_TELEMETRY_ENABLED" envDefault:"true"`

	MaxSessions         int           `env:"CALC_MAX_SESSIONS" envDefault:"1024"`
	SessionTTL          time.Duration `env:"CALC_SESSION_TTL" envDefault:"30m"`
	MaxTokensPerRequest int           `env:"CALC_MAX_TOKENS_PER_REQUEST" envDefault:"256"`
}

// Load reads .env when present and then parses the process environment.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.MaxSessions <= 0 {
		return fmt.Errorf("CALC_MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.MaxTokensPerRequest <= 0 {
		return fmt.Errorf("CALC_MAX_TOKENS_PER_REQUEST must be positive, got %d", c.MaxTokensPerRequest)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("CALC_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
