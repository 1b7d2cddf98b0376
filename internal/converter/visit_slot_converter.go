package converter

import (
	"time"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/service"

	"github.com/google/uuid"
)

// SlotToResponse reports remaining capacity; a skipped slot has none
func SlotToResponse(slot *entity.VisitSlot, booked int) dto.SlotResponse {
	return dto.SlotResponse{
		ID:              slot.ID,
		ScheduleID:      slot.ScheduleID,
		Date:            slot.Date.Format(dateLayout),
		StartTime:       clock(slot.StartTime),
		EndTime:         slotEndClock(slot),
		DurationMinutes: slot.DurationMinutes,
		MaxPeople:       slot.MaxPeople,
		IsSkipped:       slot.IsSkipped,
		Booked:          booked,
		Remaining:       remaining(slot, booked),
	}
}

func SlotsToResponses(slots []entity.VisitSlot, booked map[uuid.UUID]int) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = SlotToResponse(&slots[i], booked[slots[i].ID])
	}
	return responses
}

func CandidatesToConflicts(candidates []service.SlotCandidate) []dto.SlotConflictResponse {
	conflicts := make([]dto.SlotConflictResponse, len(candidates))
	for i, c := range candidates {
		conflicts[i] = dto.SlotConflictResponse{
			Date:      c.StartTime.Format(dateLayout),
			StartTime: c.Clock(),
			EndTime:   c.EndTime().Format(entity.SlotTimeLayout),
		}
	}
	return conflicts
}

func slotEndClock(slot *entity.VisitSlot) string {
	end, err := slot.EndAt()
	if err != nil {
		return ""
	}
	return end.Format(entity.SlotTimeLayout)
}

func remaining(slot *entity.VisitSlot, booked int) int {
	if slot.IsSkipped || booked >= slot.MaxPeople {
		return 0
	}
	return slot.MaxPeople - booked
}

// clock normalizes a database TIME value to HH:MM:SS
func clock(value string) string {
	d, err := entity.ParseClock(value)
	if err != nil {
		return value
	}
	return time.Time{}.Add(d).Format(entity.SlotTimeLayout)
}
