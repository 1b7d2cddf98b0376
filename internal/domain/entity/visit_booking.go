package entity

import (
	"time"

	"github.com/google/uuid"
)

// VisitBooking is a visitor's reservation against a slot.
// ScheduleID is denormalized from the slot so the database can enforce
// one booking per visitor name per schedule.
type VisitBooking struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SlotID         uuid.UUID `gorm:"type:uuid;not null;index" json:"slot_id"`
	ScheduleID     uuid.UUID `gorm:"type:uuid;not null;index" json:"schedule_id"`
	VisitorName    string    `gorm:"type:varchar(255);not null" json:"visitor_name"`
	NumberOfPeople int       `gorm:"not null" json:"number_of_people"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Slot *VisitSlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

func (VisitBooking) TableName() string {
	return "visit_bookings"
}

// TotalPeople sums the party sizes of bookings
func TotalPeople(bookings []VisitBooking) int {
	total := 0
	for _, b := range bookings {
		total += b.NumberOfPeople
	}
	return total
}
