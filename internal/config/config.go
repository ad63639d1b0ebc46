// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset. Never use it in production.
const DevJWTSecret = "dev-secret-change-in-production"

// Config holds every runtime setting.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	JWTSecret string
	TokenTTL  time.Duration
	// InsecureJWTSecret is set when JWT_SECRET was unset and DevJWTSecret
	// is in use. Callers warn about it once logging is configured.
	InsecureJWTSecret bool

	Mistral Mistral
}

// Mistral configures receipt extraction.
type Mistral struct {
	APIKey   string
	AgentID  string
	OCRModel string
	BaseURL  string
	Timeout  time.Duration
}

// Enabled reports whether extraction credentials are present.
func (m Mistral) Enabled() bool {
	return m.APIKey != "" && m.AgentID != ""
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "./data/billsplit.db"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Mistral: Mistral{
			APIKey:   os.Getenv("MISTRAL_API_KEY"),
			AgentID:  os.Getenv("MISTRAL_AGENT_ID"),
			OCRModel: getEnv("MISTRAL_OCR_MODEL", "mistral-ocr-latest"),
			BaseURL:  getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai"),
		},
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Mistral.Timeout, err = getDuration("EXTRACTION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DevJWTSecret
		cfg.InsecureJWTSecret = true
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
