package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("PLAN_FREE_MAX_SCHEDULE_DAYS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 3, cfg.Plan.FreeMaxScheduleDays)
}

func TestLoadConfig_InvalidPlanLimitFallsBackToSingleDay(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PLAN_FREE_MAX_SCHEDULE_DAYS", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Plan.FreeMaxScheduleDays)
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://visits.example.com, ,http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://visits.example.com", "http://localhost:3000"}, cfg.App.CORSOrigins)
}

func TestLoadConfig_PasswordReset(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Reset.Expiry)
	assert.Equal(t, "http://localhost:8080/reset-password", cfg.Reset.LinkURL)

	t.Setenv("PASSWORD_RESET_URL", "https://visits.example.com/reset")
	t.Setenv("PASSWORD_RESET_EXPIRY", "1h")

	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.Reset.Expiry)
	assert.Equal(t, "https://visits.example.com/reset", cfg.Reset.LinkURL)
}
