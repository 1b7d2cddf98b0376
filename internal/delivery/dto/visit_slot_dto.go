package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// GenerateSlotsRequest splits [start_time, end_time) on date into slots.
// RepeatRule is an RRULE fragment such as "FREQ=DAILY;INTERVAL=2".
type GenerateSlotsRequest struct {
	Date                 string      `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime            string      `json:"start_time" validate:"required"`
	EndTime              string      `json:"end_time" validate:"required"`
	DurationMinutes      NumericText `json:"duration_minutes" validate:"required"`
	MaxPeople            NumericText `json:"max_people" validate:"required"`
	CreateNonConflicting bool        `json:"create_non_conflicting"`
	RepeatRule           string      `json:"repeat_rule" validate:"omitempty,max=255"`
}

type UpdateSlotRequest struct {
	Date            string      `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string      `json:"start_time" validate:"required"`
	DurationMinutes NumericText `json:"duration_minutes" validate:"required"`
	MaxPeople       NumericText `json:"max_people" validate:"required"`
	IsSkipped       bool        `json:"is_skipped"`
}

// Response DTOs

type SlotResponse struct {
	ID              uuid.UUID `json:"id"`
	ScheduleID      uuid.UUID `json:"schedule_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxPeople       int       `json:"max_people"`
	IsSkipped       bool      `json:"is_skipped"`
	Booked          int       `json:"booked"`
	Remaining       int       `json:"remaining"`
}

type SlotConflictResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type GenerateSlotsResponse struct {
	Created   []SlotResponse         `json:"created"`
	Conflicts []SlotConflictResponse `json:"conflicts"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}
