package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"baby-visit-scheduler/config"
	"baby-visit-scheduler/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuth(t *testing.T) (*AuthMiddleware, *jwt.JWTService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "middleware-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	return NewAuthMiddleware(jwtService, client, quietLogger()), jwtService, mr
}

func TestAuthenticate(t *testing.T) {
	auth, jwtService, mr := newAuth(t)
	caregiverID := uuid.New()

	access, tokenID, err := jwtService.GenerateAccessToken(caregiverID, "mom@example.com")
	require.NoError(t, err)
	refresh, _, err := jwtService.GenerateRefreshToken(caregiverID, "mom@example.com")
	require.NoError(t, err)

	var seen uuid.UUID
	protected := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetCaregiverIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Token "+access))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+refresh))
	// not stored yet, so treated as revoked
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+access))

	require.NoError(t, mr.Set(fmt.Sprintf("access_token:%s:%s", caregiverID, tokenID), "valid"))
	assert.Equal(t, http.StatusNoContent, call("Bearer "+access))
	assert.Equal(t, caregiverID, seen)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	restricted := NewCORSMiddleware([]string{"https://visits.example.com"}).Handle(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://visits.example.com")
	rec := httptest.NewRecorder()
	restricted.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://visits.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	restricted.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	NewCORSMiddleware([]string{"*"}).Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	handler := NewRecoveryMiddleware(quietLogger()).Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	tests := []struct {
		path     string
		wantBody string
	}{
		{"/api/v1/schedules", `{"success":false,"message":"Internal server error"}`},
		{"/api/bookings", `{"message":"Internal server error"}`},
		{"/api/schedules/abc", `{"message":"Internal server error"}`},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tt.path)
		assert.JSONEq(t, tt.wantBody, rec.Body.String(), tt.path)
	}
}
