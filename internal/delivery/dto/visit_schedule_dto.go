package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateScheduleRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=255"`
	StartDate     string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	CustomMessage *string `json:"custom_message" validate:"omitempty,max=2000"`
}

type UpdateScheduleRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=255"`
	StartDate     string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	CustomMessage *string `json:"custom_message" validate:"omitempty,max=2000"`
}

// Response DTOs

type ScheduleResponse struct {
	ID            uuid.UUID `json:"id"`
	ShareCode     string    `json:"share_code"`
	Name          *string   `json:"name"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Days          int       `json:"days"`
	CustomMessage *string   `json:"custom_message"`
	SlotCount     *int      `json:"slot_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}
