package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/delivery/http/middleware"
	"baby-visit-scheduler/internal/service"
	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSlotUsecase struct {
	mock.Mock
}

func (m *mockSlotUsecase) GenerateSlots(ctx context.Context, caregiverID, scheduleID uuid.UUID, req *dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error) {
	args := m.Called(caregiverID, scheduleID, req)
	generated, _ := args.Get(0).(*dto.GenerateSlotsResponse)
	return generated, args.Error(1)
}

func (m *mockSlotUsecase) ListSlots(ctx context.Context, caregiverID, scheduleID uuid.UUID) (*dto.SlotListResponse, error) {
	args := m.Called(caregiverID, scheduleID)
	slots, _ := args.Get(0).(*dto.SlotListResponse)
	return slots, args.Error(1)
}

func (m *mockSlotUsecase) UpdateSlot(ctx context.Context, caregiverID, slotID uuid.UUID, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	args := m.Called(caregiverID, slotID, req)
	slot, _ := args.Get(0).(*dto.SlotResponse)
	return slot, args.Error(1)
}

func (m *mockSlotUsecase) DeleteSlot(ctx context.Context, caregiverID, slotID uuid.UUID) error {
	return m.Called(caregiverID, slotID).Error(0)
}

const generateBody = `{"date":"2026-03-14","start_time":"10:00","end_time":"12:00","duration_minutes":"30","max_people":4}`

func generateRequest(caregiverID uuid.UUID, scheduleID string, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedules/"+scheduleID+"/slots/generate", strings.NewReader(body))
	req = req.WithContext(middleware.WithCaregiverID(req.Context(), caregiverID))
	return mux.SetURLVars(req, map[string]string{"id": scheduleID})
}

func TestVisitSlotHandler_GenerateSlotsConflict(t *testing.T) {
	caregiverID, scheduleID := uuid.New(), uuid.New()
	start := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	uc := &mockSlotUsecase{}
	uc.On("GenerateSlots", caregiverID, scheduleID, mock.Anything).
		Return(nil, &usecase.SlotConflictError{Conflicts: []service.SlotCandidate{{StartTime: start, DurationMinutes: 30}}})

	rec := httptest.NewRecorder()
	NewVisitSlotHandler(uc, validator.NewValidator()).GenerateSlots(rec, generateRequest(caregiverID, scheduleID.String(), generateBody))

	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Success bool                       `json:"success"`
		Error   []dto.SlotConflictResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, []dto.SlotConflictResponse{{Date: "2026-03-14", StartTime: "10:30:00", EndTime: "11:00:00"}}, body.Error)

	req := uc.Calls[0].Arguments.Get(2).(*dto.GenerateSlotsRequest)
	assert.Equal(t, dto.NumericText("30"), req.DurationMinutes)
	assert.Equal(t, dto.NumericText("4"), req.MaxPeople)
}

func TestVisitSlotHandler_GenerateSlotsErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"schedule not found", usecase.ErrScheduleNotFound, http.StatusNotFound},
		{"bad duration", service.ErrInvalidDuration, http.StatusBadRequest},
		{"outside range", service.ErrSlotDateOutOfRange, http.StatusBadRequest},
		{"bad repeat rule", errors.Join(service.ErrInvalidRepeatRule, errors.New("FREQ=SOMETIMES")), http.StatusBadRequest},
		{"store", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caregiverID, scheduleID := uuid.New(), uuid.New()
			uc := &mockSlotUsecase{}
			uc.On("GenerateSlots", caregiverID, scheduleID, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewVisitSlotHandler(uc, validator.NewValidator()).GenerateSlots(rec, generateRequest(caregiverID, scheduleID.String(), generateBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestVisitSlotHandler_RejectsBeforeUsecase(t *testing.T) {
	caregiverID := uuid.New()
	uc := &mockSlotUsecase{}
	h := NewVisitSlotHandler(uc, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.GenerateSlots(rec, generateRequest(caregiverID, "not-a-uuid", generateBody))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.GenerateSlots(rec, generateRequest(caregiverID, uuid.NewString(), `{"date":"14/03/2026"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	unauthenticated := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(generateBody)), map[string]string{"id": uuid.NewString()})
	h.GenerateSlots(rec, unauthenticated)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	uc.AssertNotCalled(t, "GenerateSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestVisitSlotHandler_UpdateCapacityBelowBooked(t *testing.T) {
	caregiverID, slotID := uuid.New(), uuid.New()
	uc := &mockSlotUsecase{}
	uc.On("UpdateSlot", caregiverID, slotID, mock.Anything).Return(nil, usecase.ErrCapacityBelowBooked)

	body := `{"date":"2026-03-14","start_time":"10:00","duration_minutes":30,"max_people":1}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/slots/"+slotID.String(), strings.NewReader(body))
	req = mux.SetURLVars(req.WithContext(middleware.WithCaregiverID(req.Context(), caregiverID)), map[string]string{"id": slotID.String()})

	rec := httptest.NewRecorder()
	NewVisitSlotHandler(uc, validator.NewValidator()).UpdateSlot(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	uc.AssertExpectations(t)
}
