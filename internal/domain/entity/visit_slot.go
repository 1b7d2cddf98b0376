package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotTimeLayout is the wall-clock layout of VisitSlot.StartTime
const SlotTimeLayout = "15:04:05"

// VisitSlot is a bookable (or skipped) interval inside a schedule.
// The interval is [StartTime, StartTime + DurationMinutes).
type VisitSlot struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ScheduleID      uuid.UUID `gorm:"type:uuid;not null;index:idx_visit_slots_schedule_date" json:"schedule_id"`
	Date            time.Time `gorm:"type:date;not null;index:idx_visit_slots_schedule_date" json:"date"`
	StartTime       string    `gorm:"type:time;not null" json:"start_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	MaxPeople       int       `gorm:"not null;default:1" json:"max_people"`
	IsSkipped       bool      `gorm:"not null;default:false" json:"is_skipped"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Schedule *VisitSchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
	Bookings []VisitBooking `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE" json:"bookings,omitempty"`
}

func (VisitSlot) TableName() string {
	return "visit_slots"
}

// StartAt combines Date and StartTime into a UTC instant
func (s *VisitSlot) StartAt() (time.Time, error) {
	clock, err := ParseClock(s.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("slot %s: %w", s.ID, err)
	}
	return DateOnly(s.Date).Add(clock), nil
}

// EndAt is StartAt plus the slot duration
func (s *VisitSlot) EndAt() (time.Time, error) {
	start, err := s.StartAt()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(s.DurationMinutes) * time.Minute), nil
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into an offset from midnight
func ParseClock(value string) (time.Duration, error) {
	for _, layout := range []string{SlotTimeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", value)
}
