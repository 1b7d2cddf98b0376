package entity

import (
	"time"

	"github.com/google/uuid"
)

type BabyGender string

const (
	BabyGenderMale   BabyGender = "male"
	BabyGenderFemale BabyGender = "female"
)

// Baby holds display-only details shown on the caregiver's schedules
type Baby struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CaregiverID uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null" json:"caregiver_id"`
	Name        *string     `gorm:"type:varchar(255)" json:"name"`
	Gender      *BabyGender `gorm:"type:varchar(10)" json:"gender"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Baby) TableName() string {
	return "babies"
}
