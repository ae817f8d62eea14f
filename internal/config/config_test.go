package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":3001", cfg.ServerAddr)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "authhub.db", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.TokenExpiration)
	assert.Equal(t, 30*time.Minute, cfg.LoginExpiration)
	assert.Equal(t, ProviderModeMock, cfg.ProviderMode)
	assert.Equal(t, CacheTypeMemory, cfg.CacheType)
	assert.Equal(t, "De7au!t", cfg.AdminPassword)
	assert.False(t, cfg.AdminAPIProtected)
	assert.True(t, cfg.EnableRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 90*24*time.Hour, cfg.AuditLogRetention)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("TOKEN_EXPIRATION", "5m")
	t.Setenv("PROVIDER_MODE", "google")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("ADMIN_API_PROTECTED", "true")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, 5*time.Minute, cfg.TokenExpiration)
	assert.Equal(t, ProviderModeGoogle, cfg.ProviderMode)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.AdminAPIProtected)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadDriver(t *testing.T) {
	cfg := Load()
	cfg.DatabaseDriver = "mysql"
	assert.Error(t, cfg.Validate())
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	cfg := Load()
	cfg.DatabaseDriver = "postgres"
	cfg.DatabaseDSN = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateGoogleNeedsCredentials(t *testing.T) {
	cfg := Load()
	cfg.ProviderMode = ProviderModeGoogle
	cfg.GoogleClientID = ""
	cfg.GoogleClientSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadProviderMode(t *testing.T) {
	cfg := Load()
	cfg.ProviderMode = "facebook"
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := Load()
	cfg.IsProduction = true
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "an-actual-deployment-secret"
	assert.NoError(t, cfg.Validate())
}
