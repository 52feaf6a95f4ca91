// Package config loads runtime configuration from the environment and an
// optional yaml file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every configurable value for the service.
type Config struct {
	Addr          string // HTTP listen address
	DatabaseURL   string // PostgreSQL connection string
	LogLevel      string // debug|info|warn|error
	IngestWorkers int    // max concurrent upserts per ingest batch
	BucketWorkers int    // max concurrent bucket aggregate queries
}

// Load reads configuration from environment variables (e.g. DATABASE_URL) and,
// if present, ./configs/config.yaml. Environment takes precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("Addr", ":8080")
	v.SetDefault("DatabaseURL", "")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("IngestWorkers", 8)
	v.SetDefault("BucketWorkers", 4)

	// Bind each key to its env name explicitly: the keys carry no dots, so an
	// AutomaticEnv-with-replacer setup would look up DATABASEURL and friends
	// and never see the documented variables.
	for key, env := range map[string]string{
		"Addr":          "ADDR",
		"DatabaseURL":   "DATABASE_URL",
		"LogLevel":      "LOG_LEVEL",
		"IngestWorkers": "INGEST_WORKERS",
		"BucketWorkers": "BUCKET_WORKERS",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // file is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.IngestWorkers < 1 {
		return nil, fmt.Errorf("INGEST_WORKERS must be >= 1")
	}
	if cfg.BucketWorkers < 1 {
		return nil, fmt.Errorf("BUCKET_WORKERS must be >= 1")
	}
	return &cfg, nil
}
