package repository

import (
	"errors"
	"time"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const slotDateLayout = "2006-01-02"

type visitSlotRepository struct{}

func NewVisitSlotRepository() domainRepo.VisitSlotRepository {
	return &visitSlotRepository{}
}

func (r *visitSlotRepository) CreateBatch(db *gorm.DB, slots []entity.VisitSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return db.Omit("Schedule", "Bookings").Create(&slots).Error
}

func (r *visitSlotRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.VisitSlot, error) {
	var slot entity.VisitSlot
	err := db.Preload("Schedule").Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *visitSlotRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.VisitSlot, error) {
	var slot entity.VisitSlot
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *visitSlotRepository) FindByScheduleID(db *gorm.DB, scheduleID uuid.UUID) ([]entity.VisitSlot, error) {
	var slots []entity.VisitSlot
	err := db.Where("schedule_id = ?", scheduleID).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *visitSlotRepository) FindByScheduleAndDate(db *gorm.DB, scheduleID uuid.UUID, date time.Time) ([]entity.VisitSlot, error) {
	var slots []entity.VisitSlot
	err := db.Where("schedule_id = ? AND date = ?", scheduleID, date.Format(slotDateLayout)).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// CountOutsideRange counts slots of the schedule dated before startDate or after endDate
func (r *visitSlotRepository) CountOutsideRange(db *gorm.DB, scheduleID uuid.UUID, startDate, endDate time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.VisitSlot{}).
		Where("schedule_id = ? AND (date < ? OR date > ?)", scheduleID, startDate.Format(slotDateLayout), endDate.Format(slotDateLayout)).
		Count(&count).Error
	return count, err
}

func (r *visitSlotRepository) Update(db *gorm.DB, slot *entity.VisitSlot) error {
	return db.Omit("Schedule", "Bookings").Save(slot).Error
}

func (r *visitSlotRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.VisitSlot{})
	return result.RowsAffected, result.Error
}
