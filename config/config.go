// Package config loads the environment configuration for the backend
// client commands. Values come from the process environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/exposurekit/backend"
)

// Config holds the immutable client configuration.
type Config struct {
	RetrieveURL string
	SubmitURL   string
	HMACKey     string
	Region      string
	LogLevel    string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; missing files are not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RetrieveURL: os.Getenv("EN_RETRIEVE_URL"),
		SubmitURL:   os.Getenv("EN_SUBMIT_URL"),
		HMACKey:     os.Getenv("EN_HMAC_KEY"),
		Region:      getEnv("EN_REGION", backend.DefaultRegion),
		LogLevel:    getEnv("EN_LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RetrieveURL == "" {
		return fmt.Errorf("EN_RETRIEVE_URL is required")
	}
	if c.SubmitURL == "" {
		return fmt.Errorf("EN_SUBMIT_URL is required")
	}
	if c.HMACKey == "" {
		return fmt.Errorf("EN_HMAC_KEY is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
