// Package config loads the HTTP server's environment configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/neurostack/prepreport/internal/flatten"
)

type Config struct {
	Port string

	// Optional bearer token; empty disables auth.
	APIKey string

	// Upload limits
	MaxBodyBytes int64

	// Parse defaults
	PatternFile string
	Engine      string
	EnsureASCII bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("PREPREPORT_API_KEY"),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 10485760), // 10MB

		PatternFile: os.Getenv("PREPREPORT_PATTERNS"),
		Engine:      envOr("PREPREPORT_ENGINE", string(flatten.EngineTree)),
		EnsureASCII: envBool("PREPREPORT_ENSURE_ASCII", true),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := flatten.ParseEngine(c.Engine); err != nil {
		return fmt.Errorf("PREPREPORT_ENGINE: %w", err)
	}
	if c.PatternFile != "" {
		if _, err := os.Stat(c.PatternFile); err != nil {
			return fmt.Errorf("PREPREPORT_PATTERNS: %w", err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
