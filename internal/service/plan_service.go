package service

import (
	"errors"
	"fmt"
	"time"

	"baby-visit-scheduler/config"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPlanLimitExceeded = errors.New("schedule length exceeds the free plan, upgrade to premium for multi-day schedules")

// PlanService applies the free/premium rules to a caregiver
type PlanService struct {
	entitlementRepo repository.EntitlementRepository
	freeMaxDays     int
	now             func() time.Time
}

func NewPlanService(entitlementRepo repository.EntitlementRepository, cfg config.PlanConfig) *PlanService {
	return &PlanService{
		entitlementRepo: entitlementRepo,
		freeMaxDays:     cfg.FreeMaxScheduleDays,
		now:             time.Now,
	}
}

// ActiveEntitlements returns the caregiver's entitlements that are still running
func (s *PlanService) ActiveEntitlements(db *gorm.DB, caregiverID uuid.UUID) ([]entity.Entitlement, error) {
	return s.entitlementRepo.FindActiveByCaregiverID(db, caregiverID, s.now())
}

func (s *PlanService) IsPremium(db *gorm.DB, caregiverID uuid.UUID) (bool, error) {
	active, err := s.ActiveEntitlements(db, caregiverID)
	if err != nil {
		return false, err
	}
	return len(active) > 0, nil
}

// CheckScheduleSpan rejects schedules longer than the free plan allows
// unless the caregiver is premium
func (s *PlanService) CheckScheduleSpan(db *gorm.DB, caregiverID uuid.UUID, schedule *entity.VisitSchedule) error {
	days := schedule.Days()
	if days <= s.freeMaxDays {
		return nil
	}

	premium, err := s.IsPremium(db, caregiverID)
	if err != nil {
		return fmt.Errorf("check premium: %w", err)
	}
	if !premium {
		return fmt.Errorf("%w (%d days, free limit %d)", ErrPlanLimitExceeded, days, s.freeMaxDays)
	}
	return nil
}

func (s *PlanService) FreeMaxDays() int {
	return s.freeMaxDays
}

// RenewalStart is where a new purchase period begins: the end of the
// latest running entitlement, or now when there is none
func (s *PlanService) RenewalStart(db *gorm.DB, caregiverID uuid.UUID) (time.Time, error) {
	now := s.now()
	active, err := s.entitlementRepo.FindActiveByCaregiverID(db, caregiverID, now)
	if err != nil {
		return time.Time{}, err
	}

	start := now
	for _, e := range active {
		if e.ActiveUntil.After(start) {
			start = e.ActiveUntil
		}
	}
	return start, nil
}
