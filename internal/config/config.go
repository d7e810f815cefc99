// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the service configuration, loaded from environment variables.
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string // oracle provider API key
	StorageRoot string // blob store root directory
	Debug       bool   // enables the diagnostic tracer

	// HR credential: a single operator account configured out of band.
	HREmail        string
	HRPasswordHash string // bcrypt hash
}

// Load reads the service configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           8080,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		StorageRoot:    os.Getenv("STORAGE_ROOT"),
		HREmail:        os.Getenv("HR_EMAIL"),
		HRPasswordHash: os.Getenv("HR_PASSWORD_HASH"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if debugStr := os.Getenv("DEBUG"); debugStr != "" {
		debug, err := strconv.ParseBool(debugStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DEBUG: %v", err)
		}
		cfg.Debug = debug
	}

	if cfg.StorageRoot == "" {
		cfg.StorageRoot = "data/resumes"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT out of range: %d", c.Port)
	}
	return nil
}
