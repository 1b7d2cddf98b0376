package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockResetUsecase struct {
	mock.Mock
}

func (m *mockResetUsecase) RequestReset(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	return m.Called(req.Email).Error(0)
}

func (m *mockResetUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	return m.Called(req.Token).Error(0)
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCall   bool
	}{
		{"registered or not", `{"email":"ana@example.com"}`, nil, http.StatusOK, true},
		{"bad email", `{"email":"ana"}`, nil, http.StatusBadRequest, false},
		{"store down", `{"email":"ana@example.com"}`, errors.New("redis down"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockResetUsecase{}
			uc.On("RequestReset", "ana@example.com").Return(tt.err)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", strings.NewReader(tt.body))
			NewAuthHandler(nil, uc, validator.NewValidator(), nil).ForgotPassword(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCall {
				uc.AssertExpectations(t)
			} else {
				uc.AssertNotCalled(t, "RequestReset", mock.Anything)
			}
		})
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"ok", `{"token":"abc","password":"new-secret"}`, nil, http.StatusOK},
		{"expired token", `{"token":"abc","password":"new-secret"}`, usecase.ErrInvalidResetToken, http.StatusBadRequest},
		{"short password", `{"token":"abc","password":"123"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockResetUsecase{}
			uc.On("ResetPassword", "abc").Return(tt.err)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password", strings.NewReader(tt.body))
			NewAuthHandler(nil, uc, validator.NewValidator(), nil).ResetPassword(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
