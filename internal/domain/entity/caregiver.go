package entity

import (
	"time"

	"github.com/google/uuid"
)

// Caregiver is the account that owns visit schedules
type Caregiver struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Baby *Baby `gorm:"foreignKey:CaregiverID" json:"baby,omitempty"`
}

func (Caregiver) TableName() string {
	return "caregivers"
}
