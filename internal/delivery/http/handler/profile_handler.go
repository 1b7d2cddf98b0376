package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/response"
	"baby-visit-scheduler/pkg/validator"
)

// ProfileHandler serves the caregiver's own account and baby details
type ProfileHandler struct {
	babyUsecase    usecase.BabyUsecase
	profileUsecase usecase.CaregiverProfileUsecase
	validator      *validator.CustomValidator
}

func NewProfileHandler(babyUsecase usecase.BabyUsecase, profileUsecase usecase.CaregiverProfileUsecase, validator *validator.CustomValidator) *ProfileHandler {
	return &ProfileHandler{
		babyUsecase:    babyUsecase,
		profileUsecase: profileUsecase,
		validator:      validator,
	}
}

func (h *ProfileHandler) GetBaby(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	baby, err := h.babyUsecase.GetBaby(r.Context(), caregiverID)
	if err != nil {
		response.InternalServerError(w, "Failed to get baby")
		return
	}

	response.Success(w, http.StatusOK, "Baby retrieved successfully", baby)
}

func (h *ProfileHandler) SaveBaby(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	var req dto.UpsertBabyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	baby, err := h.babyUsecase.SaveBaby(r.Context(), caregiverID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to save baby")
		return
	}

	response.Success(w, http.StatusOK, "Baby saved successfully", baby)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	caregiver, err := h.profileUsecase.UpdateProfile(r.Context(), caregiverID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCaregiverNotFound):
			response.NotFound(w, "Caregiver not found")
		case errors.Is(err, usecase.ErrInvalidOldPassword):
			response.Error(w, http.StatusBadRequest, "Old password is incorrect", nil)
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", caregiver)
}
