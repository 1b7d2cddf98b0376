package usecase

import (
	"errors"
	"time"

	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrInvalidScheduleDate = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat   = errors.New("invalid time format, use HH:MM or HH:MM:SS")
)

const dateLayout = "2006-01-02"

// findOwnedSchedule hides schedules of other caregivers behind ErrScheduleNotFound.
// With forUpdate the row stays locked until db's transaction ends.
func findOwnedSchedule(db *gorm.DB, scheduleRepo repository.VisitScheduleRepository, caregiverID, scheduleID uuid.UUID, forUpdate bool) (*entity.VisitSchedule, error) {
	var (
		schedule *entity.VisitSchedule
		err      error
	)
	if forUpdate {
		schedule, err = scheduleRepo.FindByIDForUpdate(db, scheduleID)
	} else {
		schedule, err = scheduleRepo.FindByID(db, scheduleID)
	}
	if err != nil {
		return nil, err
	}
	if schedule == nil || schedule.CaregiverID != caregiverID {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidScheduleDate
	}
	return t, nil
}

// parseClockOn anchors a wall-clock "HH:MM[:SS]" on date
func parseClockOn(date time.Time, value string) (time.Time, error) {
	offset, err := entity.ParseClock(value)
	if err != nil {
		return time.Time{}, ErrInvalidTimeFormat
	}
	return entity.DateOnly(date).Add(offset), nil
}
