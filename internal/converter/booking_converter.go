package converter

import (
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

func PublicScheduleToResponse(schedule *entity.VisitSchedule, baby *entity.Baby, slots []entity.VisitSlot, booked map[uuid.UUID]int) *dto.PublicScheduleResponse {
	response := &dto.PublicScheduleResponse{
		Code:          schedule.ID.String(),
		Name:          schedule.Name,
		StartDate:     schedule.StartDate.Format(dateLayout),
		EndDate:       schedule.EndDate.Format(dateLayout),
		CustomMessage: schedule.CustomMessage,
		Slots:         make([]dto.PublicSlotResponse, len(slots)),
	}
	if baby != nil {
		response.BabyName = baby.Name
	}

	for i := range slots {
		slot := &slots[i]
		response.Slots[i] = dto.PublicSlotResponse{
			ID:              slot.ID,
			Date:            slot.Date.Format(dateLayout),
			StartTime:       clock(slot.StartTime),
			DurationMinutes: slot.DurationMinutes,
			MaxPeople:       slot.MaxPeople,
			IsSkipped:       slot.IsSkipped,
			Booked:          booked[slot.ID],
			Remaining:       remaining(slot, booked[slot.ID]),
		}
	}

	return response
}

func BookingToResponse(booking *entity.VisitBooking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:             booking.ID,
		SlotID:         booking.SlotID,
		VisitorName:    booking.VisitorName,
		NumberOfPeople: booking.NumberOfPeople,
		CreatedAt:      booking.CreatedAt,
	}
}

// ScheduleBookingsToResponse groups bookings under their slot, keeping slot order
func ScheduleBookingsToResponse(scheduleID uuid.UUID, slots []entity.VisitSlot, bookings []entity.VisitBooking) *dto.ScheduleBookingsResponse {
	bySlot := make(map[uuid.UUID][]dto.BookingResponse, len(slots))
	booked := make(map[uuid.UUID]int, len(slots))
	for i := range bookings {
		b := &bookings[i]
		bySlot[b.SlotID] = append(bySlot[b.SlotID], BookingToResponse(b))
		booked[b.SlotID] += b.NumberOfPeople
	}

	response := &dto.ScheduleBookingsResponse{
		ScheduleID:  scheduleID,
		Slots:       make([]dto.SlotBookingsResponse, 0, len(slots)),
		TotalPeople: entity.TotalPeople(bookings),
		Total:       len(bookings),
	}
	for i := range slots {
		slot := &slots[i]
		entries := bySlot[slot.ID]
		if entries == nil {
			entries = []dto.BookingResponse{}
		}
		response.Slots = append(response.Slots, dto.SlotBookingsResponse{
			Slot:     SlotToResponse(slot, booked[slot.ID]),
			Bookings: entries,
		})
	}

	return response
}
