package repository

import (
	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.VisitSchedule) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.VisitSchedule, error)
	// FindByIDForUpdate locks the schedule row until the surrounding transaction ends
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.VisitSchedule, error)
	FindByCaregiverID(db *gorm.DB, caregiverID uuid.UUID) ([]entity.VisitSchedule, error)
	Update(db *gorm.DB, schedule *entity.VisitSchedule) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
