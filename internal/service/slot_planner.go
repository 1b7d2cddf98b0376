package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

var (
	ErrInvalidTimeRange   = errors.New("end time must be after start time")
	ErrInvalidDuration    = errors.New("slot duration must be a positive whole number of minutes")
	ErrInvalidCapacity    = errors.New("slot capacity must be a positive whole number of people")
	ErrSlotDateOutOfRange = errors.New("slot date must be within the schedule period")
	ErrInvalidRepeatRule  = errors.New("invalid repeat rule")
)

// maxRepeatDates bounds how many days a single repeat rule may expand to
const maxRepeatDates = 366

// SlotCandidate is a slot proposed by GenerateSlots, not yet persisted
type SlotCandidate struct {
	StartTime       time.Time
	DurationMinutes int
}

func (c SlotCandidate) EndTime() time.Time {
	return c.StartTime.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// Clock returns the candidate start as a wall-clock "HH:MM:SS" string
func (c SlotCandidate) Clock() string {
	return c.StartTime.Format(entity.SlotTimeLayout)
}

// GenerateSlots partitions [dayStart, dayEnd) into consecutive slots of
// slotDurationMinutes. The last slot is truncated to end exactly at dayEnd and
// dropped when the remainder rounds to zero minutes. Output is chronological,
// gapless and non-overlapping.
func GenerateSlots(dayStart, dayEnd time.Time, slotDurationMinutes, capacityPerSlot int) ([]SlotCandidate, error) {
	if !dayEnd.After(dayStart) {
		return nil, ErrInvalidTimeRange
	}
	if slotDurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if capacityPerSlot <= 0 {
		return nil, ErrInvalidCapacity
	}

	step := time.Duration(slotDurationMinutes) * time.Minute
	var slots []SlotCandidate

	for cursor := dayStart; cursor.Before(dayEnd); cursor = cursor.Add(step) {
		end := cursor.Add(step)
		if end.After(dayEnd) {
			end = dayEnd
		}

		minutes := int(math.Round(end.Sub(cursor).Minutes()))
		if minutes <= 0 {
			continue
		}

		slots = append(slots, SlotCandidate{
			StartTime:       cursor,
			DurationMinutes: minutes,
		})
	}

	return slots, nil
}

// ParseDurationMinutes parses caregiver input for a slot duration.
// Non-numeric, fractional, zero and negative values are rejected.
func ParseDurationMinutes(text string) (int, error) {
	return parsePositiveInt(text, ErrInvalidDuration)
}

// ParseCapacity parses caregiver input for the maximum party size of a slot
func ParseCapacity(text string) (int, error) {
	return parsePositiveInt(text, ErrInvalidCapacity)
}

func parsePositiveInt(text string, invalid error) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return 0, invalid
	}
	return n, nil
}

// Overlaps is the half-open interval test: touching endpoints do not overlap
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DetectConflicts returns the candidates overlapping any existing slot.
// Skipped slots never block, and excludeSlotID (the slot being edited) is ignored.
func DetectConflicts(candidates []SlotCandidate, existing []entity.VisitSlot, excludeSlotID uuid.UUID) ([]SlotCandidate, error) {
	_, conflicting, err := SplitConflicts(candidates, existing, excludeSlotID)
	return conflicting, err
}

// SplitConflicts separates candidates into those that can be created as-is
// and those that overlap an existing slot. Input order is preserved.
func SplitConflicts(candidates []SlotCandidate, existing []entity.VisitSlot, excludeSlotID uuid.UUID) (clean, conflicting []SlotCandidate, err error) {
	type interval struct{ start, end time.Time }

	blocking := make([]interval, 0, len(existing))
	for i := range existing {
		slot := &existing[i]
		if slot.IsSkipped || slot.ID == excludeSlotID {
			continue
		}
		start, err := slot.StartAt()
		if err != nil {
			return nil, nil, err
		}
		end, err := slot.EndAt()
		if err != nil {
			return nil, nil, err
		}
		blocking = append(blocking, interval{start: start, end: end})
	}

	for _, candidate := range candidates {
		conflict := false
		for _, b := range blocking {
			if Overlaps(candidate.StartTime, candidate.EndTime(), b.start, b.end) {
				conflict = true
				break
			}
		}
		if conflict {
			conflicting = append(conflicting, candidate)
		} else {
			clean = append(clean, candidate)
		}
	}

	return clean, conflicting, nil
}

// ValidateSlotDate rejects dates outside the schedule's inclusive range
func ValidateSlotDate(schedule *entity.VisitSchedule, date time.Time) error {
	if !schedule.Covers(date) {
		return fmt.Errorf("%w: %s is outside %s..%s", ErrSlotDateOutOfRange,
			date.Format(dateLayout), schedule.StartDate.Format(dateLayout), schedule.EndDate.Format(dateLayout))
	}
	return nil
}

// ExpandRepeatDates returns the calendar days produced by an RFC 5545 RRULE
// fragment (e.g. "FREQ=DAILY;INTERVAL=2") starting at first and never past
// until. An empty rule yields first only.
func ExpandRepeatDates(first time.Time, rule string, until time.Time) ([]time.Time, error) {
	first = entity.DateOnly(first)
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if rule == "" {
		return []time.Time{first}, nil
	}

	option, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRepeatRule, err)
	}

	if option.Freq > rrule.DAILY {
		return nil, fmt.Errorf("%w: repeats must be daily or less frequent", ErrInvalidRepeatRule)
	}
	// only the calendar day of an occurrence matters
	option.Byhour, option.Byminute, option.Bysecond = nil, nil, nil

	last := entity.DateOnly(until)
	option.Dtstart = first
	if option.Until.IsZero() || option.Until.After(last) {
		option.Until = last
	}

	r, err := rrule.NewRRule(*option)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRepeatRule, err)
	}

	seen := make(map[time.Time]bool)
	var dates []time.Time
	next := r.Iterator()
	for occurrence, ok := next(); ok; occurrence, ok = next() {
		day := entity.DateOnly(occurrence)
		if seen[day] {
			continue
		}
		if len(dates) == maxRepeatDates {
			return nil, fmt.Errorf("%w: expands to more than %d days", ErrInvalidRepeatRule, maxRepeatDates)
		}
		seen[day] = true
		dates = append(dates, day)
	}

	return dates, nil
}

const dateLayout = "2006-01-02"
