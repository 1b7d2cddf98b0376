package converter

import (
	"testing"
	"time"

	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotToResponse(t *testing.T) {
	slot := entity.VisitSlot{
		ID:              uuid.New(),
		Date:            time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime:       "14:30:00",
		DurationMinutes: 45,
		MaxPeople:       4,
	}

	resp := SlotToResponse(&slot, 3)
	assert.Equal(t, "2026-03-14", resp.Date)
	assert.Equal(t, "15:15:00", resp.EndTime)
	assert.Equal(t, 1, resp.Remaining)

	slot.IsSkipped = true
	assert.Zero(t, SlotToResponse(&slot, 0).Remaining)
}

func TestScheduleBookingsToResponse(t *testing.T) {
	scheduleID := uuid.New()
	first := entity.VisitSlot{ID: uuid.New(), ScheduleID: scheduleID, StartTime: "10:00:00", DurationMinutes: 30, MaxPeople: 5}
	second := entity.VisitSlot{ID: uuid.New(), ScheduleID: scheduleID, StartTime: "10:30:00", DurationMinutes: 30, MaxPeople: 5}
	bookings := []entity.VisitBooking{
		{ID: uuid.New(), SlotID: first.ID, VisitorName: "Ana", NumberOfPeople: 2},
		{ID: uuid.New(), SlotID: first.ID, VisitorName: "Bruno", NumberOfPeople: 1},
	}

	resp := ScheduleBookingsToResponse(scheduleID, []entity.VisitSlot{first, second}, bookings)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, 3, resp.TotalPeople)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Slots[0].Bookings, 2)
	assert.Equal(t, 2, resp.Slots[0].Slot.Remaining)
	assert.NotNil(t, resp.Slots[1].Bookings)
	assert.Empty(t, resp.Slots[1].Bookings)
}

func TestClock(t *testing.T) {
	assert.Equal(t, "09:05:00", clock("09:05"))
	assert.Equal(t, "garbage", clock("garbage"))
}
