package handler

import (
	"net/http"

	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}

	logs, err := h.auditLogUsecase.GetActivity(r.Context(), caregiverID, queryLimit(r))
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}
