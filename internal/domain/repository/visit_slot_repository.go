package repository

import (
	"time"

	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitSlotRepository interface {
	CreateBatch(db *gorm.DB, slots []entity.VisitSlot) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.VisitSlot, error)
	// FindByIDForUpdate locks the slot row until the surrounding transaction ends
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.VisitSlot, error)
	FindByScheduleID(db *gorm.DB, scheduleID uuid.UUID) ([]entity.VisitSlot, error)
	FindByScheduleAndDate(db *gorm.DB, scheduleID uuid.UUID, date time.Time) ([]entity.VisitSlot, error)
	CountOutsideRange(db *gorm.DB, scheduleID uuid.UUID, startDate, endDate time.Time) (int64, error)
	Update(db *gorm.DB, slot *entity.VisitSlot) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
