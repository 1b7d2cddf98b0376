package repository

import (
	"errors"

	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateVisitorBooking is returned by Create when the visitor already
// holds a booking in the same schedule.
var ErrDuplicateVisitorBooking = errors.New("visitor already has a booking in this schedule")

type VisitBookingRepository interface {
	Create(db *gorm.DB, booking *entity.VisitBooking) error
	FindBySlotID(db *gorm.DB, slotID uuid.UUID) ([]entity.VisitBooking, error)
	FindByScheduleID(db *gorm.DB, scheduleID uuid.UUID) ([]entity.VisitBooking, error)
	// FindByScheduleAndVisitor matches visitor names case-insensitively
	FindByScheduleAndVisitor(db *gorm.DB, scheduleID uuid.UUID, visitorName string) ([]entity.VisitBooking, error)
	FindBySlotAndVisitor(db *gorm.DB, slotID uuid.UUID, visitorName string) (*entity.VisitBooking, error)
	SumPeopleBySlotIDs(db *gorm.DB, slotIDs []uuid.UUID) (map[uuid.UUID]int, error)
	DeleteByIDs(db *gorm.DB, ids []uuid.UUID) (int64, error)
}
