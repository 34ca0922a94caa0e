package utils

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StorageSQLite = "sqlite"
	StorageBadger = "badger"
	StorageMemory = "memory"
)

// Config is read once from MANGATHEQUE_* environment variables.
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Storage selects the backend holding the collection slot.
	Storage    string `env:"STORAGE" envDefault:"sqlite"`
	DBPath     string `env:"DB_PATH"`
	BadgerPath string `env:"BADGER_PATH"`
	StorageKey string `env:"STORAGE_KEY" envDefault:"mangatheque_v3_data"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-3-flash-preview"`

	ImageMaxBytes int64 `env:"IMAGE_MAX_BYTES" envDefault:"8388608"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MANGATHEQUE_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	// API_KEY is the older variable name
	if cfg.GeminiAPIKey == "" {
		var legacy struct {
			Key string `env:"API_KEY"`
		}
		if err := env.Parse(&legacy); err == nil {
			cfg.GeminiAPIKey = legacy.Key
		}
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	switch cfg.Storage {
	case StorageSQLite, StorageBadger, StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	if cfg.StorageKey == "" {
		return Config{}, fmt.Errorf("storage key must not be empty")
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
