package jwt

import (
	"testing"
	"time"

	"baby-visit-scheduler/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	caregiverID := uuid.New()

	access, accessID, err := svc.GenerateAccessToken(caregiverID, "mom@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, caregiverID, claims.CaregiverID)
	assert.Equal(t, "mom@example.com", claims.Email)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, accessID, claims.TokenID)

	refresh, refreshID, err := svc.GenerateRefreshToken(caregiverID, "mom@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, accessID, refreshID)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateAccessToken(uuid.New(), "dad@example.com")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "another-secret", AccessExpiry: time.Minute})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	expired := newTestService()
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.GenerateAccessToken(uuid.New(), "dad@example.com")
	require.NoError(t, err)
	_, err = svc.ValidateToken(stale)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
