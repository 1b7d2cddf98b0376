package repository

import (
	"errors"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type caregiverRepository struct{}

func NewCaregiverRepository() domainRepo.CaregiverRepository {
	return &caregiverRepository{}
}

func (r *caregiverRepository) Create(db *gorm.DB, caregiver *entity.Caregiver) error {
	return db.Create(caregiver).Error
}

func (r *caregiverRepository) FindByEmail(db *gorm.DB, email string) (*entity.Caregiver, error) {
	var caregiver entity.Caregiver
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&caregiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &caregiver, nil
}

func (r *caregiverRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Caregiver, error) {
	var caregiver entity.Caregiver
	err := db.Preload("Baby").Where("id = ?", id).First(&caregiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &caregiver, nil
}

func (r *caregiverRepository) Update(db *gorm.DB, caregiver *entity.Caregiver) error {
	return db.Omit("Baby").Save(caregiver).Error
}
