package repository

import (
	"time"

	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntitlementRepository interface {
	Create(db *gorm.DB, entitlement *entity.Entitlement) error
	FindActiveByCaregiverID(db *gorm.DB, caregiverID uuid.UUID, at time.Time) ([]entity.Entitlement, error)
	FindByTransactionID(db *gorm.DB, transactionID string) (*entity.Entitlement, error)
}
