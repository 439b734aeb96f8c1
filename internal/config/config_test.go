package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, "./notes.db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, "https://api.ocr.space/parse/image", cfg.OCRURL)
	assert.Equal(t, 5.0, cfg.OutboundRateLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/notes")
	t.Setenv("HUGGINGFACE_BASE_URL", "http://hf.local/models/")
	t.Setenv("LOCAL_MODEL_DISABLED", "true")
	t.Setenv("OUTBOUND_RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, "postgres://u:p@localhost/notes", cfg.DatabaseURL)
	assert.Equal(t, "http://hf.local/models", cfg.HuggingFaceBaseURL)
	assert.True(t, cfg.LocalModelDisabled)
	assert.Equal(t, 2.5, cfg.OutboundRateLimit)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "jwt_secret: from-file\nfrontend_url: https://notes.example.com\nport: 7000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "https://notes.example.com", cfg.FrontendURL)
	assert.Equal(t, 7001, cfg.ServerPort, "env must win over file")
}

func TestLoad_EmptyEnvIgnored(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, "./notes.db", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ZeroRateLimitDisables(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("OUTBOUND_RATE_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.OutboundRateLimit)
}

func TestLoad_UnreadableFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "k")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{ServerPort: 5000, DatabaseURL: "x.db", JWTSecret: "k", OutboundRateLimit: 1}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.ServerPort = 0 }},
		{"port too high", func(c *Config) { c.ServerPort = 70000 }},
		{"no database", func(c *Config) { c.DatabaseURL = "" }},
		{"negative rate", func(c *Config) { c.OutboundRateLimit = -1 }},
		{"no secret", func(c *Config) { c.JWTSecret = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
