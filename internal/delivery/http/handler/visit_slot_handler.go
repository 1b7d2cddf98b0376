package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-visit-scheduler/internal/converter"
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/service"
	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/response"
	"baby-visit-scheduler/pkg/validator"
)

type VisitSlotHandler struct {
	slotUsecase usecase.VisitSlotUsecase
	validator   *validator.CustomValidator
}

func NewVisitSlotHandler(slotUsecase usecase.VisitSlotUsecase, validator *validator.CustomValidator) *VisitSlotHandler {
	return &VisitSlotHandler{
		slotUsecase: slotUsecase,
		validator:   validator,
	}
}

// GenerateSlots splits a time range into slots, optionally repeated by a recurrence rule.
// When some proposed slots overlap existing ones and create_non_conflicting is not set,
// nothing is created and the conflicts are returned with 409.
func (h *VisitSlotHandler) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "id", "schedule")
	if !ok {
		return
	}

	var req dto.GenerateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	generated, err := h.slotUsecase.GenerateSlots(r.Context(), caregiverID, scheduleID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to generate slots")
		return
	}

	response.Success(w, http.StatusCreated, "Slots generated successfully", generated)
}

func (h *VisitSlotHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "id", "schedule")
	if !ok {
		return
	}

	slots, err := h.slotUsecase.ListSlots(r.Context(), caregiverID, scheduleID)
	if err != nil {
		h.writeError(w, err, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

func (h *VisitSlotHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	slotID, ok := pathID(w, r, "id", "slot")
	if !ok {
		return
	}

	var req dto.UpdateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.slotUsecase.UpdateSlot(r.Context(), caregiverID, slotID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot updated successfully", slot)
}

func (h *VisitSlotHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	slotID, ok := pathID(w, r, "id", "slot")
	if !ok {
		return
	}

	if err := h.slotUsecase.DeleteSlot(r.Context(), caregiverID, slotID); err != nil {
		h.writeError(w, err, "Failed to delete slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot deleted successfully", nil)
}

func (h *VisitSlotHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	var conflict *usecase.SlotConflictError
	switch {
	case errors.As(err, &conflict):
		response.Error(w, http.StatusConflict, "Slots overlap existing slots", converter.CandidatesToConflicts(conflict.Conflicts))
	case errors.Is(err, usecase.ErrScheduleNotFound):
		response.NotFound(w, "Schedule not found")
	case errors.Is(err, usecase.ErrVisitSlotNotFound):
		response.NotFound(w, "Slot not found")
	case errors.Is(err, usecase.ErrCapacityBelowBooked):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidScheduleDate),
		errors.Is(err, usecase.ErrInvalidTimeFormat),
		errors.Is(err, usecase.ErrNoSlotsGenerated),
		errors.Is(err, usecase.ErrInvalidSlotValues),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrSlotDateOutOfRange),
		errors.Is(err, service.ErrInvalidRepeatRule):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
