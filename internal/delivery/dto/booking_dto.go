package dto

import (
	"time"

	"github.com/google/uuid"
)

// Public booking requests keep the camelCase field names used by the
// sharing page.

type PublicBookingRequest struct {
	SlotID          string    `json:"slotId"`
	VisitorName     string    `json:"visitorName"`
	NumberOfPeople  Headcount `json:"numberOfPeople"`
	ReplaceExisting bool      `json:"replaceExisting"`
}

type PublicCancelRequest struct {
	SlotID      string `json:"slotId"`
	VisitorName string `json:"visitorName"`
}

type PublicSlotResponse struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxPeople       int       `json:"max_people"`
	IsSkipped       bool      `json:"is_skipped"`
	Booked          int       `json:"booked"`
	Remaining       int       `json:"remaining"`
}

type PublicScheduleResponse struct {
	Code          string               `json:"code"`
	Name          *string              `json:"name"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	CustomMessage *string              `json:"custom_message"`
	BabyName      *string              `json:"baby_name,omitempty"`
	Slots         []PublicSlotResponse `json:"slots"`
}

// Caregiver visits overview

type BookingResponse struct {
	ID             uuid.UUID `json:"id"`
	SlotID         uuid.UUID `json:"slot_id"`
	VisitorName    string    `json:"visitor_name"`
	NumberOfPeople int       `json:"number_of_people"`
	CreatedAt      time.Time `json:"created_at"`
}

type SlotBookingsResponse struct {
	Slot     SlotResponse      `json:"slot"`
	Bookings []BookingResponse `json:"bookings"`
}

type ScheduleBookingsResponse struct {
	ScheduleID  uuid.UUID              `json:"schedule_id"`
	Slots       []SlotBookingsResponse `json:"slots"`
	TotalPeople int                    `json:"total_people"`
	Total       int                    `json:"total"`
}
