package repository

import (
	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BabyRepository interface {
	FindByCaregiverID(db *gorm.DB, caregiverID uuid.UUID) (*entity.Baby, error)
	Save(db *gorm.DB, baby *entity.Baby) error
}
