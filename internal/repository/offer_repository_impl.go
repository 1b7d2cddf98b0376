package repository

import (
	"errors"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type offerRepository struct{}

func NewOfferRepository() domainRepo.OfferRepository {
	return &offerRepository{}
}

func (r *offerRepository) FindActive(db *gorm.DB) ([]entity.Offer, error) {
	var offers []entity.Offer
	if err := db.Where("is_active = ?", true).Order("price ASC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Offer, error) {
	var offer entity.Offer
	err := db.Where("id = ?", id).First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}
