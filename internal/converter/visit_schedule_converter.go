package converter

import (
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func ScheduleToResponse(schedule *entity.VisitSchedule) *dto.ScheduleResponse {
	if schedule == nil {
		return nil
	}

	response := &dto.ScheduleResponse{
		ID:            schedule.ID,
		ShareCode:     schedule.ID.String(),
		Name:          schedule.Name,
		StartDate:     schedule.StartDate.Format(dateLayout),
		EndDate:       schedule.EndDate.Format(dateLayout),
		Days:          schedule.Days(),
		CustomMessage: schedule.CustomMessage,
		CreatedAt:     schedule.CreatedAt,
		UpdatedAt:     schedule.UpdatedAt,
	}

	if schedule.Slots != nil {
		count := len(schedule.Slots)
		response.SlotCount = &count
	}

	return response
}

func SchedulesToResponses(schedules []entity.VisitSchedule) []dto.ScheduleResponse {
	responses := make([]dto.ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = *ScheduleToResponse(&schedules[i])
	}
	return responses
}
