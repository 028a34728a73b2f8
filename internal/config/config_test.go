package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "omniverse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		FileEnv, "PORT", "JWT_SECRET", "CATALOG_FILE", "API_KEY", "GEMINI_API_KEY",
		"GEMINI_MODEL", "GEMINI_BASE_URL", "LOG_LEVEL", "LOG_FORMAT",
		"SESSION_TTL", "TOKEN_TTL", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: "9090"
jwt_secret: from-file
session_ttl: 5m
catalog_file: /etc/omniverse/catalog.yaml
gemini:
  model: gemini-2.5-pro
log:
  level: debug
`)
	t.Setenv(FileEnv, path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "/etc/omniverse/catalog.yaml", cfg.CatalogFile)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, "gemini-key", cfg.Gemini.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		t.Setenv(FileEnv, filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "port: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv(FileEnv, "")
		t.Setenv("SESSION_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "SESSION_TTL")
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Port = "http"
	cfg.SessionTTL = 0
	err := cfg.Validate()
	assert.ErrorContains(t, err, "invalid port")
	assert.ErrorContains(t, err, "session TTL")
}
