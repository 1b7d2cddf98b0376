package repository

import (
	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

func (r *auditLogRepository) FindByCaregiverID(db *gorm.DB, caregiverID uuid.UUID, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := db.
		Where("caregiver_id = ?", caregiverID).
		Or("metadata->>'schedule_id' IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&entity.VisitSchedule{}).
				Select("id::text").
				Where("caregiver_id = ?", caregiverID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *auditLogRepository) FindByScheduleID(db *gorm.DB, scheduleID uuid.UUID, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := db.
		Where("metadata->>'schedule_id' = ?", scheduleID.String()).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
