package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  uri: postgres://localhost/civicsync
auth:
  jwt_secret: from-file
analytics:
  timezone: Europe/Berlin
`), 0o600))

	t.Setenv("JWT_SECRET", "from-legacy-env")
	t.Setenv("CIVICSYNC_SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "from-legacy-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "auth_token", cfg.Auth.CookieName)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "Europe/Berlin", cfg.Analytics.Location().String())
}

func TestLoad_MissingSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: sqlite\n"), 0o600))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CIVICSYNC_AUTH_JWT_SECRET", "")

	_, err := Load(path)
	assert.ErrorContains(t, err, "auth.jwt_secret")
}

func TestValidate_Driver(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Driver: "oracle", URI: "x"},
		Auth:     AuthConfig{JWTSecret: "s", TokenTTLHours: 1},
	}
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg.Database.Driver = "mongodb"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Database.IsMongo())
}

func TestAnalyticsLocation_Fallback(t *testing.T) {
	assert.Equal(t, time.UTC, AnalyticsConfig{}.Location())
	assert.Equal(t, time.UTC, AnalyticsConfig{Timezone: "Mars/Olympus"}.Location())
}
