package repository

import (
	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferRepository interface {
	FindActive(db *gorm.DB) ([]entity.Offer, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Offer, error)
}
