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

type EntitlementHandler struct {
	entitlementUsecase usecase.EntitlementUsecase
	validator          *validator.CustomValidator
}

func NewEntitlementHandler(entitlementUsecase usecase.EntitlementUsecase, validator *validator.CustomValidator) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementUsecase: entitlementUsecase,
		validator:          validator,
	}
}

func (h *EntitlementHandler) GetOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.entitlementUsecase.ListOffers(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get offers")
		return
	}

	response.Success(w, http.StatusOK, "Offers retrieved successfully", offers)
}

func (h *EntitlementHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	offerID, ok := pathID(w, r, "id", "offer")
	if !ok {
		return
	}

	var req dto.PurchaseOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entitlement, err := h.entitlementUsecase.Purchase(r.Context(), caregiverID, offerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOfferNotFound):
			response.NotFound(w, "Offer not found")
		case errors.Is(err, usecase.ErrTransactionAlreadyUsed):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to purchase offer")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Offer purchased successfully", entitlement)
}

func (h *EntitlementHandler) Restore(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	var req dto.RestoreEntitlementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	status, err := h.entitlementUsecase.Restore(r.Context(), caregiverID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to restore purchases")
		return
	}

	response.Success(w, http.StatusOK, "Purchases restored successfully", status)
}

func (h *EntitlementHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	status, err := h.entitlementUsecase.GetStatus(r.Context(), caregiverID)
	if err != nil {
		response.InternalServerError(w, "Failed to get entitlements")
		return
	}

	response.Success(w, http.StatusOK, "Entitlements retrieved successfully", status)
}
