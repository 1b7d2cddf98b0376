package entity

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement grants premium access until ActiveUntil
type Entitlement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CaregiverID   uuid.UUID `gorm:"type:uuid;not null;index" json:"caregiver_id"`
	OfferID       uuid.UUID `gorm:"type:uuid;not null" json:"offer_id"`
	TransactionID string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"transaction_id"`
	ActiveUntil   time.Time `gorm:"not null;index" json:"active_until"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Offer *Offer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
}

func (Entitlement) TableName() string {
	return "entitlements"
}

// IsActiveAt reports whether the entitlement still grants premium at t
func (e *Entitlement) IsActiveAt(t time.Time) bool {
	return e.ActiveUntil.After(t)
}
