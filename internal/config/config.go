// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the server configuration, read from the environment.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DatabaseURL is the PostgreSQL connection string. Empty disables
	// persistence: generation still works, accounts and applications
	// do not.
	DatabaseURL string

	// GeminiAPIKey authenticates calls to the model provider. Required.
	GeminiAPIKey string

	// JWTSecret verifies bearer tokens issued by the auth provider.
	// Required when DatabaseURL is set.
	JWTSecret string

	// WebhookSecret verifies payment provider webhook signatures.
	WebhookSecret string

	// QuotaBypassSecret, when set, lets callers presenting it skip the
	// free-tier quota. Empty disables the bypass.
	QuotaBypassSecret string

	// FreeLimit is the number of free generations per account.
	FreeLimit int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		WebhookSecret:     os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		QuotaBypassSecret: os.Getenv("QUOTA_BYPASS_SECRET"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	limitStr := getEnv("FREE_LIMIT", "3")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FREE_LIMIT: %v", err)
	}
	cfg.FreeLimit = limit

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required but not set")
	}
	if c.FreeLimit < 1 {
		return fmt.Errorf("FREE_LIMIT must be at least 1, got: %d", c.FreeLimit)
	}
	if c.DatabaseURL != "" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when DATABASE_URL is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
