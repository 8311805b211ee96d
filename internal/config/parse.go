package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Parse loads an optional .env file and then reads the environment.
func Parse() (Config, error) {
	godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings the app cannot start with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendDynamoDB, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendDynamoDB && c.Store.Table == "" {
		return fmt.Errorf("NOTES_TABLE must not be empty")
	}
	return nil
}
