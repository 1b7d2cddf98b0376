package entity

import (
	"time"

	"github.com/google/uuid"
)

// VisitSchedule is a caregiver-defined visiting window.
// Its ID doubles as the public sharing code.
type VisitSchedule struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CaregiverID   uuid.UUID `gorm:"type:uuid;not null;index" json:"caregiver_id"`
	Name          *string   `gorm:"type:varchar(255)" json:"name"`
	StartDate     time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null" json:"end_date"`
	CustomMessage *string   `gorm:"type:text" json:"custom_message"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Slots []VisitSlot `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}

func (VisitSchedule) TableName() string {
	return "visit_schedules"
}

// Covers reports whether date falls within [StartDate, EndDate], compared by calendar day
func (s *VisitSchedule) Covers(date time.Time) bool {
	day := DateOnly(date)
	return !day.Before(DateOnly(s.StartDate)) && !day.After(DateOnly(s.EndDate))
}

// Days returns the number of calendar days the schedule spans, inclusive
func (s *VisitSchedule) Days() int {
	return int(DateOnly(s.EndDate).Sub(DateOnly(s.StartDate)).Hours()/24) + 1
}

// DateOnly drops the clock part and normalizes to UTC midnight
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
