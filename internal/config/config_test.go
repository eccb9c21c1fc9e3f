package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("TABLE_NAME", "course-platform")
	t.Setenv("JWT_SECRET_ACCESS_TOKEN", "a-secret")
	t.Setenv("JWT_SECRET_REFRESH_TOKEN", "r-secret")
	t.Setenv("JWT_SECRET_PASSWORD_RECOVERY", "p-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.AppDomain)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTTL)
	assert.False(t, cfg.SingleSessionRefresh)
	assert.Equal(t, 256, cfg.RouteCacheSize)
	assert.Equal(t, "587", cfg.SMTPPort)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_DOMAIN", "app.example.com")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("SINGLE_SESSION_REFRESH_TOKEN", "true")
	t.Setenv("ROUTE_CACHE_SIZE", "32")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "app.example.com", cfg.AppDomain)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.True(t, cfg.SingleSessionRefresh)
	assert.Equal(t, 32, cfg.RouteCacheSize)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	// t.Setenv keeps the restore hook; the unset makes the variable truly
	// absent rather than empty.
	os.Unsetenv("TABLE_NAME")

	_, err := Load()
	assert.Error(t, err)
}
