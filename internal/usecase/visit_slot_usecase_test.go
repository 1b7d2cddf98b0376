package usecase

import (
	"context"
	"testing"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotFixture struct {
	usecase    VisitSlotUsecase
	mock       sqlmock.Sqlmock
	slots      *fakeSlotRepo
	audit      *fakeAudit
	redis      *miniredis.Miniredis
	caregiver  uuid.UUID
	scheduleID uuid.UUID
	sums       map[uuid.UUID]int
}

// newSlotFixture builds a three day schedule starting on visitDay
func newSlotFixture(t *testing.T, existing ...func(scheduleID uuid.UUID) entity.VisitSlot) *slotFixture {
	t.Helper()

	db, mock := newMockDB(t)
	caregiverID := uuid.New()
	schedule := newSchedule(caregiverID, visitDay, visitDay.AddDate(0, 0, 2))

	slots := newFakeSlotRepo()
	for _, build := range existing {
		slot := build(schedule.ID)
		slots.slots[slot.ID] = slot
	}

	bookings := &fakeBookingSums{sums: map[uuid.UUID]int{}}
	cache, mr := newTestCache(t, bookings)
	audit := &fakeAudit{}

	return &slotFixture{
		usecase:    NewVisitSlotUsecase(db, quietLogger(), newFakeScheduleRepo(schedule), slots, bookings, audit, cache),
		mock:       mock,
		slots:      slots,
		audit:      audit,
		redis:      mr,
		caregiver:  caregiverID,
		scheduleID: schedule.ID,
		sums:       bookings.sums,
	}
}

func existingAt(start string, minutes int) func(uuid.UUID) entity.VisitSlot {
	return func(scheduleID uuid.UUID) entity.VisitSlot {
		return newExistingSlot(scheduleID, visitDay, start, minutes, 4)
	}
}

func generateMorning(date string, createNonConflicting bool) *dto.GenerateSlotsRequest {
	return &dto.GenerateSlotsRequest{
		Date:                 date,
		StartTime:            "10:00",
		EndTime:              "12:00",
		DurationMinutes:      "30",
		MaxPeople:            "4",
		CreateNonConflicting: createNonConflicting,
	}
}

func TestGenerateSlots_RejectsConflictsByDefault(t *testing.T) {
	f := newSlotFixture(t, existingAt("10:30:00", 30))
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.usecase.GenerateSlots(context.Background(), f.caregiver, f.scheduleID, generateMorning("2026-03-14", false))

	var conflict *SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, ErrSlotConflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "10:30:00", conflict.Conflicts[0].Clock())

	assert.Equal(t, 1, f.slots.count())
	assert.Empty(t, f.audit.actions)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGenerateSlots_CreatesOnlyCleanCandidates(t *testing.T) {
	f := newSlotFixture(t, existingAt("10:30:00", 30))
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.usecase.GenerateSlots(context.Background(), f.caregiver, f.scheduleID, generateMorning("2026-03-14", true))
	require.NoError(t, err)

	starts := make([]string, len(resp.Created))
	for i, slot := range resp.Created {
		starts[i] = slot.StartTime
	}
	assert.Equal(t, []string{"10:00:00", "11:00:00", "11:30:00"}, starts)
	assert.Equal(t, []dto.SlotConflictResponse{{Date: "2026-03-14", StartTime: "10:30:00", EndTime: "11:00:00"}}, resp.Conflicts)

	assert.Equal(t, 4, f.slots.count())
	assert.Equal(t, []string{entity.AuditActionSlotsGenerate}, f.audit.actions)
	for _, slot := range resp.Created {
		value, err := f.redis.Get(service.RedisSlotBookedKeyPrefix + slot.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "0", value)
	}
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGenerateSlots_NoCleanCandidatesReturnsConflicts(t *testing.T) {
	f := newSlotFixture(t, existingAt("09:00:00", 240))
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.usecase.GenerateSlots(context.Background(), f.caregiver, f.scheduleID, generateMorning("2026-03-14", true))

	var conflict *SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, conflict.Conflicts, 4)
	assert.Equal(t, 1, f.slots.count())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGenerateSlots_RepeatRuleStaysInsideSchedule(t *testing.T) {
	f := newSlotFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := generateMorning("2026-03-15", false)
	req.RepeatRule = "FREQ=DAILY"
	resp, err := f.usecase.GenerateSlots(context.Background(), f.caregiver, f.scheduleID, req)
	require.NoError(t, err)

	// 15th and 16th only: the schedule ends on the 16th
	require.Len(t, resp.Created, 8)
	assert.Equal(t, "2026-03-15", resp.Created[0].Date)
	assert.Equal(t, "2026-03-16", resp.Created[7].Date)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGenerateSlots_RejectedInputs(t *testing.T) {
	tests := []struct {
		name    string
		req     func() *dto.GenerateSlotsRequest
		opensTx bool
		wantErr error
	}{
		{"date before schedule", func() *dto.GenerateSlotsRequest { return generateMorning("2026-03-13", false) }, true, service.ErrSlotDateOutOfRange},
		{"date after schedule", func() *dto.GenerateSlotsRequest { return generateMorning("2026-03-17", false) }, true, service.ErrSlotDateOutOfRange},
		{"hourly repeat", func() *dto.GenerateSlotsRequest {
			req := generateMorning("2026-03-14", false)
			req.RepeatRule = "FREQ=HOURLY"
			return req
		}, true, service.ErrInvalidRepeatRule},
		{"text duration", func() *dto.GenerateSlotsRequest {
			req := generateMorning("2026-03-14", false)
			req.DurationMinutes = "half an hour"
			return req
		}, false, service.ErrInvalidDuration},
		{"zero capacity", func() *dto.GenerateSlotsRequest {
			req := generateMorning("2026-03-14", false)
			req.MaxPeople = "0"
			return req
		}, false, service.ErrInvalidCapacity},
		{"end before start", func() *dto.GenerateSlotsRequest {
			req := generateMorning("2026-03-14", false)
			req.EndTime = "09:00"
			return req
		}, true, service.ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSlotFixture(t)
			if tt.opensTx {
				f.mock.ExpectBegin()
				f.mock.ExpectRollback()
			}

			_, err := f.usecase.GenerateSlots(context.Background(), f.caregiver, f.scheduleID, tt.req())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.slots.count())
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestGenerateSlots_OtherCaregiverSeesNotFound(t *testing.T) {
	f := newSlotFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.usecase.GenerateSlots(context.Background(), uuid.New(), f.scheduleID, generateMorning("2026-03-14", false))
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestGenerateSlots_CheckViolationIsInvalidInput(t *testing.T) {
	f := newSlotFixture(t)
	f.slots.createErr = &pgconn.PgError{Code: "23514", ConstraintName: "chk_visit_slots_max_people"}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.usecase.GenerateSlots(context.Background(), f.caregiver, f.scheduleID, generateMorning("2026-03-14", false))
	assert.ErrorIs(t, err, ErrInvalidSlotValues)
}

func updateTo(start string, maxPeople string, skipped bool) *dto.UpdateSlotRequest {
	return &dto.UpdateSlotRequest{
		Date:            "2026-03-14",
		StartTime:       start,
		DurationMinutes: "30",
		MaxPeople:       dto.NumericText(maxPeople),
		IsSkipped:       skipped,
	}
}

func TestUpdateSlot_OverlapRules(t *testing.T) {
	edited := newExistingSlot(uuid.Nil, visitDay, "10:00:00", 30, 4)
	f := newSlotFixture(t, existingAt("11:00:00", 30), func(scheduleID uuid.UUID) entity.VisitSlot {
		edited.ScheduleID = scheduleID
		return edited
	})
	ctx := context.Background()

	// the slot never conflicts with itself
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.usecase.UpdateSlot(ctx, f.caregiver, edited.ID, updateTo("10:15", "4", false))
	require.NoError(t, err)
	assert.Equal(t, "10:15:00", resp.StartTime)

	// moving onto the 11:00 slot is rejected
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.usecase.UpdateSlot(ctx, f.caregiver, edited.ID, updateTo("10:45", "4", false))
	var conflict *SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "10:45:00", conflict.Conflicts[0].Clock())

	// a skipped slot takes no visitors and may overlap
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err = f.usecase.UpdateSlot(ctx, f.caregiver, edited.ID, updateTo("10:45", "4", true))
	require.NoError(t, err)
	assert.True(t, resp.IsSkipped)

	assert.Equal(t, []string{entity.AuditActionSlotUpdate, entity.AuditActionSlotUpdate}, f.audit.actions)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateSlot_CapacityBelowBooked(t *testing.T) {
	slot := newExistingSlot(uuid.Nil, visitDay, "10:00:00", 30, 4)
	f := newSlotFixture(t, func(scheduleID uuid.UUID) entity.VisitSlot {
		slot.ScheduleID = scheduleID
		return slot
	})
	f.sums[slot.ID] = 3
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.usecase.UpdateSlot(ctx, f.caregiver, slot.ID, updateTo("10:00", "2", false))
	assert.ErrorIs(t, err, ErrCapacityBelowBooked)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.usecase.UpdateSlot(ctx, f.caregiver, slot.ID, updateTo("10:00", "3", false))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.MaxPeople)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateSlot_OtherCaregiverSeesNotFound(t *testing.T) {
	slot := newExistingSlot(uuid.Nil, visitDay, "10:00:00", 30, 4)
	f := newSlotFixture(t, func(scheduleID uuid.UUID) entity.VisitSlot {
		slot.ScheduleID = scheduleID
		return slot
	})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.usecase.UpdateSlot(context.Background(), uuid.New(), slot.ID, updateTo("10:00", "4", false))
	assert.ErrorIs(t, err, ErrVisitSlotNotFound)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.usecase.UpdateSlot(context.Background(), f.caregiver, uuid.New(), updateTo("10:00", "4", false))
	assert.ErrorIs(t, err, ErrVisitSlotNotFound)
}

func TestDeleteSlot_DropsCachedCounter(t *testing.T) {
	slot := newExistingSlot(uuid.Nil, visitDay, "10:00:00", 30, 4)
	f := newSlotFixture(t, func(scheduleID uuid.UUID) entity.VisitSlot {
		slot.ScheduleID = scheduleID
		return slot
	})
	key := service.RedisSlotBookedKeyPrefix + slot.ID.String()
	require.NoError(t, f.redis.Set(key, "2"))

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	require.NoError(t, f.usecase.DeleteSlot(context.Background(), f.caregiver, slot.ID))

	assert.Zero(t, f.slots.count())
	assert.False(t, f.redis.Exists(key))
	assert.Equal(t, []string{entity.AuditActionSlotDelete}, f.audit.actions)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
