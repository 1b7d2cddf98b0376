package repository

import (
	"errors"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type babyRepository struct{}

func NewBabyRepository() domainRepo.BabyRepository {
	return &babyRepository{}
}

func (r *babyRepository) FindByCaregiverID(db *gorm.DB, caregiverID uuid.UUID) (*entity.Baby, error) {
	var baby entity.Baby
	err := db.Where("caregiver_id = ?", caregiverID).First(&baby).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &baby, nil
}

// Save inserts the baby when it has no ID yet, otherwise updates it
func (r *babyRepository) Save(db *gorm.DB, baby *entity.Baby) error {
	return db.Save(baby).Error
}
