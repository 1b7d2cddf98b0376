package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/service"
	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/response"
	"baby-visit-scheduler/pkg/validator"
)

type VisitScheduleHandler struct {
	scheduleUsecase usecase.VisitScheduleUsecase
	validator       *validator.CustomValidator
}

func NewVisitScheduleHandler(scheduleUsecase usecase.VisitScheduleUsecase, validator *validator.CustomValidator) *VisitScheduleHandler {
	return &VisitScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *VisitScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateSchedule(r.Context(), caregiverID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *VisitScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "id", "schedule")
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), caregiverID, scheduleID)
	if err != nil {
		h.writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *VisitScheduleHandler) GetAllSchedules(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	schedules, err := h.scheduleUsecase.ListSchedules(r.Context(), caregiverID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *VisitScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "id", "schedule")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), caregiverID, scheduleID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *VisitScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "id", "schedule")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteSchedule(r.Context(), caregiverID, scheduleID); err != nil {
		h.writeError(w, err, "Failed to delete schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}

func (h *VisitScheduleHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrScheduleNotFound):
		response.NotFound(w, "Schedule not found")
	case errors.Is(err, usecase.ErrInvalidScheduleDate), errors.Is(err, usecase.ErrInvalidScheduleRange):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrPlanLimitExceeded):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrSlotsOutsideRange):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
