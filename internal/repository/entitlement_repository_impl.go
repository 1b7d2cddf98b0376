package repository

import (
	"errors"
	"time"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type entitlementRepository struct{}

func NewEntitlementRepository() domainRepo.EntitlementRepository {
	return &entitlementRepository{}
}

func (r *entitlementRepository) Create(db *gorm.DB, entitlement *entity.Entitlement) error {
	return db.Omit("Offer").Create(entitlement).Error
}

func (r *entitlementRepository) FindActiveByCaregiverID(db *gorm.DB, caregiverID uuid.UUID, at time.Time) ([]entity.Entitlement, error) {
	var entitlements []entity.Entitlement
	err := db.Preload("Offer").
		Where("caregiver_id = ? AND active_until > ?", caregiverID, at).
		Order("active_until DESC").
		Find(&entitlements).Error
	if err != nil {
		return nil, err
	}
	return entitlements, nil
}

func (r *entitlementRepository) FindByTransactionID(db *gorm.DB, transactionID string) (*entity.Entitlement, error) {
	var entitlement entity.Entitlement
	err := db.Where("transaction_id = ?", transactionID).First(&entitlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entitlement, nil
}
