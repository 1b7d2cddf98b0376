package repository

import (
	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	// FindByCaregiverID returns the caregiver's own actions plus visitor
	// booking events on the caregiver's schedules, newest first
	FindByCaregiverID(db *gorm.DB, caregiverID uuid.UUID, limit int) ([]entity.AuditLog, error)
	// FindByScheduleID returns booking events recorded for one schedule, newest first
	FindByScheduleID(db *gorm.DB, scheduleID uuid.UUID, limit int) ([]entity.AuditLog, error)
}
