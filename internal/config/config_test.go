package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("PORT", "")
	t.Setenv("ACCESS_TOKEN_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppMode)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 60, cfg.JWT.AccessTokenMins)
	assert.Equal(t, 7, cfg.JWT.RefreshTokenDays)
}

func TestLoadInvalidAppMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadModePrefixes(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("DEV_JWT_SECRET", "dev-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
}

func TestLoadTokenLifetimeOverrides(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("ACCESS_TOKEN_MINUTES", "15")
	t.Setenv("REFRESH_TOKEN_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.JWT.AccessTokenMins)
	assert.Equal(t, 30, cfg.JWT.RefreshTokenDays)
}

func TestGetAllowedOrigins(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())

	t.Setenv("ALLOWED_ORIGINS", "https://campus.example.com")
	assert.Equal(t, "https://campus.example.com", cfg.GetAllowedOrigins())
}
