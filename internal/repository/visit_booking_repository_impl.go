package repository

import (
	"errors"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type visitBookingRepository struct{}

func NewVisitBookingRepository() domainRepo.VisitBookingRepository {
	return &visitBookingRepository{}
}

func (r *visitBookingRepository) Create(db *gorm.DB, booking *entity.VisitBooking) error {
	err := db.Omit("Slot").Create(booking).Error
	if isUniqueViolation(err, visitorPerScheduleIndex) {
		return domainRepo.ErrDuplicateVisitorBooking
	}
	return err
}

func (r *visitBookingRepository) FindBySlotID(db *gorm.DB, slotID uuid.UUID) ([]entity.VisitBooking, error) {
	var bookings []entity.VisitBooking
	err := db.Where("slot_id = ?", slotID).Order("created_at ASC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *visitBookingRepository) FindByScheduleID(db *gorm.DB, scheduleID uuid.UUID) ([]entity.VisitBooking, error) {
	var bookings []entity.VisitBooking
	err := db.Preload("Slot").
		Joins("JOIN visit_slots ON visit_slots.id = visit_bookings.slot_id").
		Where("visit_bookings.schedule_id = ?", scheduleID).
		Order("visit_slots.date ASC, visit_slots.start_time ASC, visit_bookings.created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *visitBookingRepository) FindByScheduleAndVisitor(db *gorm.DB, scheduleID uuid.UUID, visitorName string) ([]entity.VisitBooking, error) {
	var bookings []entity.VisitBooking
	err := db.Where("schedule_id = ? AND LOWER(visitor_name) = LOWER(?)", scheduleID, visitorName).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *visitBookingRepository) FindBySlotAndVisitor(db *gorm.DB, slotID uuid.UUID, visitorName string) (*entity.VisitBooking, error) {
	var booking entity.VisitBooking
	err := db.Where("slot_id = ? AND LOWER(visitor_name) = LOWER(?)", slotID, visitorName).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// SumPeopleBySlotIDs returns the booked party total per slot; slots without bookings are absent
func (r *visitBookingRepository) SumPeopleBySlotIDs(db *gorm.DB, slotIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	totals := make(map[uuid.UUID]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return totals, nil
	}

	var rows []struct {
		SlotID uuid.UUID
		Total  int
	}
	err := db.Model(&entity.VisitBooking{}).
		Select("slot_id, COALESCE(SUM(number_of_people), 0) AS total").
		Where("slot_id IN ?", slotIDs).
		Group("slot_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		totals[row.SlotID] = row.Total
	}
	return totals, nil
}

func (r *visitBookingRepository) DeleteByIDs(db *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("id IN ?", ids).Delete(&entity.VisitBooking{})
	return result.RowsAffected, result.Error
}
