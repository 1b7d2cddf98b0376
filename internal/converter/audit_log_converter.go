package converter

import (
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
)

// AuditLogToResponse converts an AuditLog entity to AuditLogResponse DTO.
// Entries without a caregiver were written by a visitor through the public page.
func AuditLogToResponse(log *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:        log.ID,
		Action:    log.Action,
		ByVisitor: log.CaregiverID == nil,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = AuditLogToResponse(&logs[i])
	}
	return responses
}
