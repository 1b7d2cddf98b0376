package repository

import (
	"errors"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type visitScheduleRepository struct{}

func NewVisitScheduleRepository() domainRepo.VisitScheduleRepository {
	return &visitScheduleRepository{}
}

func (r *visitScheduleRepository) Create(db *gorm.DB, schedule *entity.VisitSchedule) error {
	return db.Omit("Slots").Create(schedule).Error
}

func (r *visitScheduleRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.VisitSchedule, error) {
	var schedule entity.VisitSchedule
	err := db.Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *visitScheduleRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.VisitSchedule, error) {
	var schedule entity.VisitSchedule
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *visitScheduleRepository) FindByCaregiverID(db *gorm.DB, caregiverID uuid.UUID) ([]entity.VisitSchedule, error) {
	var schedules []entity.VisitSchedule
	err := db.Where("caregiver_id = ?", caregiverID).
		Order("start_date DESC, created_at DESC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *visitScheduleRepository) Update(db *gorm.DB, schedule *entity.VisitSchedule) error {
	return db.Omit("Slots").Save(schedule).Error
}

// Delete removes the schedule; slots and their bookings go with it through ON DELETE CASCADE
func (r *visitScheduleRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.VisitSchedule{})
	return result.RowsAffected, result.Error
}
