package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_PATH", "LOG_LEVEL", "JWT_SECRET", "TOKEN_TTL",
		"MISTRAL_API_KEY", "MISTRAL_AGENT_ID", "MISTRAL_OCR_MODEL",
		"MISTRAL_BASE_URL", "EXTRACTION_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/billsplit.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.InsecureJWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "mistral-ocr-latest", cfg.Mistral.OCRModel)
	assert.Equal(t, "https://api.mistral.ai", cfg.Mistral.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Mistral.Timeout)
	assert.False(t, cfg.Mistral.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("MISTRAL_API_KEY", "key")
	t.Setenv("MISTRAL_AGENT_ID", "agent")
	t.Setenv("EXTRACTION_TIMEOUT", "15s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.InsecureJWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.Mistral.Timeout)
	assert.True(t, cfg.Mistral.Enabled())
}

func TestFromEnvInvalidDuration(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TOKEN_TTL", "forever"},
		{"TOKEN_TTL", "-1h"},
		{"EXTRACTION_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
