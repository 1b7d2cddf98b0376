package repository

import (
	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaregiverRepository interface {
	Create(db *gorm.DB, caregiver *entity.Caregiver) error
	FindByEmail(db *gorm.DB, email string) (*entity.Caregiver, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Caregiver, error)
	Update(db *gorm.DB, caregiver *entity.Caregiver) error
}
