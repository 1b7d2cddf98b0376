package service

import (
	"testing"
	"time"

	"baby-visit-scheduler/config"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockEntitlementRepo struct {
	repository.EntitlementRepository
	mock.Mock
}

func (m *mockEntitlementRepo) FindActiveByCaregiverID(db *gorm.DB, caregiverID uuid.UUID, at time.Time) ([]entity.Entitlement, error) {
	args := m.Called(caregiverID, at)
	active, _ := args.Get(0).([]entity.Entitlement)
	return active, args.Error(1)
}

func TestPlanService_CheckScheduleSpan(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	free, premium := uuid.New(), uuid.New()

	repo := &mockEntitlementRepo{}
	repo.On("FindActiveByCaregiverID", free, now).Return([]entity.Entitlement(nil), nil)
	repo.On("FindActiveByCaregiverID", premium, now).Return([]entity.Entitlement{{CaregiverID: premium, ActiveUntil: now.AddDate(0, 1, 0)}}, nil)

	plans := NewPlanService(repo, config.PlanConfig{FreeMaxScheduleDays: 1})
	plans.now = func() time.Time { return now }

	oneDay := &entity.VisitSchedule{StartDate: day, EndDate: day}
	threeDays := &entity.VisitSchedule{StartDate: day, EndDate: day.AddDate(0, 0, 2)}

	require.NoError(t, plans.CheckScheduleSpan(nil, free, oneDay))
	assert.ErrorIs(t, plans.CheckScheduleSpan(nil, free, threeDays), ErrPlanLimitExceeded)
	assert.NoError(t, plans.CheckScheduleSpan(nil, premium, threeDays))

	isPremium, err := plans.IsPremium(nil, premium)
	require.NoError(t, err)
	assert.True(t, isPremium)

	repo.AssertNumberOfCalls(t, "FindActiveByCaregiverID", 3)
}

func TestPlanService_RenewalStart(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	free, premium := uuid.New(), uuid.New()
	later := now.AddDate(0, 0, 20)

	repo := &mockEntitlementRepo{}
	repo.On("FindActiveByCaregiverID", free, now).Return([]entity.Entitlement(nil), nil)
	repo.On("FindActiveByCaregiverID", premium, now).Return([]entity.Entitlement{
		{ActiveUntil: now.AddDate(0, 0, 5)},
		{ActiveUntil: later},
	}, nil)

	plans := NewPlanService(repo, config.PlanConfig{FreeMaxScheduleDays: 1})
	plans.now = func() time.Time { return now }

	start, err := plans.RenewalStart(nil, free)
	require.NoError(t, err)
	assert.Equal(t, now, start)

	start, err = plans.RenewalStart(nil, premium)
	require.NoError(t, err)
	assert.Equal(t, later, start)
	assert.Equal(t, 1, plans.FreeMaxDays())
}
