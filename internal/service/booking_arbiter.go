package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrVisitorNameRequired = errors.New("visitor name is required")
	ErrInvalidPartySize    = errors.New("number of people must be at least 1")
	ErrSlotNotFound        = errors.New("selected slot was not found")
	ErrAlreadyBooked       = errors.New("you already have a booking in this schedule, confirm that you want to change it")
	ErrSlotFull            = errors.New("this slot does not have enough room for the number of people informed")
	ErrSlotSkipped         = fmt.Errorf("slot is not available for visits: %w", ErrSlotFull)
	ErrBookingNotFound     = errors.New("booking not found")
)

// BookingOutcome is the decision reached for a booking or cancel request
type BookingOutcome string

const (
	OutcomeAccepted                 BookingOutcome = "accepted"
	OutcomeSlotFull                 BookingOutcome = "slot_full"
	OutcomeNeedsReplaceConfirmation BookingOutcome = "needs_replace_confirmation"
	OutcomeInvalidInput             BookingOutcome = "invalid_input"
	OutcomeNotFound                 BookingOutcome = "not_found"
	OutcomeStoreError               BookingOutcome = "store_error"
)

// OutcomeOf classifies an error returned by BookingArbiter.
// Anything not recognised is a store failure.
func OutcomeOf(err error) BookingOutcome {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, ErrVisitorNameRequired), errors.Is(err, ErrInvalidPartySize):
		return OutcomeInvalidInput
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrBookingNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrAlreadyBooked):
		return OutcomeNeedsReplaceConfirmation
	case errors.Is(err, ErrSlotFull):
		return OutcomeSlotFull
	default:
		return OutcomeStoreError
	}
}

type BookingRequest struct {
	SlotID          uuid.UUID
	VisitorName     string
	NumberOfPeople  int
	ReplaceExisting bool
}

type BookingResult struct {
	Booking  *entity.VisitBooking
	Slot     *entity.VisitSlot
	Replaced []entity.VisitBooking
}

// BookingArbiter decides and commits visitor bookings.
// Every decision runs inside one ledger transaction holding the slot lock,
// so the capacity check always sees committed occupancy.
type BookingArbiter struct {
	runner repository.BookingLedgerRunner
	log    *logrus.Logger
}

func NewBookingArbiter(runner repository.BookingLedgerRunner, log *logrus.Logger) *BookingArbiter {
	return &BookingArbiter{
		runner: runner,
		log:    log,
	}
}

func (a *BookingArbiter) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	name := strings.TrimSpace(req.VisitorName)
	if name == "" {
		return nil, ErrVisitorNameRequired
	}
	if req.NumberOfPeople < 1 {
		return nil, ErrInvalidPartySize
	}

	var result *BookingResult
	err := a.runner.RunInTx(ctx, func(ledger repository.BookingLedger) error {
		slot, err := ledger.LockSlot(req.SlotID)
		if err != nil {
			return fmt.Errorf("lock slot: %w", err)
		}
		if slot == nil {
			return ErrSlotNotFound
		}

		visitorBookings, err := ledger.FindVisitorBookings(slot.ScheduleID, name)
		if err != nil {
			return fmt.Errorf("find visitor bookings: %w", err)
		}

		slotBookings, err := ledger.FindSlotBookings(slot.ID)
		if err != nil {
			return fmt.Errorf("find slot bookings: %w", err)
		}

		if err := decideBooking(slot, slotBookings, visitorBookings, req.NumberOfPeople, req.ReplaceExisting); err != nil {
			return err
		}

		if len(visitorBookings) > 0 {
			ids := make([]uuid.UUID, 0, len(visitorBookings))
			for _, b := range visitorBookings {
				ids = append(ids, b.ID)
			}
			if err := ledger.DeleteBookings(ids); err != nil {
				return fmt.Errorf("delete previous bookings: %w", err)
			}
			for _, b := range visitorBookings {
				if err := ledger.InsertAuditLog(bookingAuditEntry(entity.AuditActionBookingReplace, b)); err != nil {
					return fmt.Errorf("audit replaced booking: %w", err)
				}
			}
		}

		booking := &entity.VisitBooking{
			SlotID:         slot.ID,
			ScheduleID:     slot.ScheduleID,
			VisitorName:    name,
			NumberOfPeople: req.NumberOfPeople,
		}
		if err := ledger.InsertBooking(booking); err != nil {
			if errors.Is(err, repository.ErrDuplicateVisitorBooking) {
				// a concurrent request of the same visitor committed first
				return ErrAlreadyBooked
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		if err := ledger.InsertAuditLog(bookingAuditEntry(entity.AuditActionBookingCreate, *booking)); err != nil {
			return fmt.Errorf("audit booking: %w", err)
		}

		result = &BookingResult{
			Booking:  booking,
			Slot:     slot,
			Replaced: visitorBookings,
		}
		return nil
	})
	if err != nil {
		if OutcomeOf(err) == OutcomeStoreError {
			a.log.Errorf("Failed to book slot %s: %+v", req.SlotID, err)
		} else {
			a.log.Debugf("Booking on slot %s rejected: %v", req.SlotID, err)
		}
		return nil, err
	}

	a.log.Infof("Booking %s accepted on slot %s (%d people, %d replaced)",
		result.Booking.ID, result.Slot.ID, result.Booking.NumberOfPeople, len(result.Replaced))
	return result, nil
}

// Cancel removes the visitor's booking on the slot, matching the name case-insensitively
func (a *BookingArbiter) Cancel(ctx context.Context, slotID uuid.UUID, visitorName string) (*entity.VisitBooking, error) {
	name := strings.TrimSpace(visitorName)
	if name == "" {
		return nil, ErrVisitorNameRequired
	}

	var cancelled *entity.VisitBooking
	err := a.runner.RunInTx(ctx, func(ledger repository.BookingLedger) error {
		booking, err := ledger.FindSlotBookingByVisitor(slotID, name)
		if err != nil {
			return fmt.Errorf("find booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}

		if err := ledger.DeleteBookings([]uuid.UUID{booking.ID}); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		if err := ledger.InsertAuditLog(bookingAuditEntry(entity.AuditActionBookingCancel, *booking)); err != nil {
			return fmt.Errorf("audit cancelled booking: %w", err)
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		if OutcomeOf(err) == OutcomeStoreError {
			a.log.Errorf("Failed to cancel booking on slot %s: %+v", slotID, err)
		}
		return nil, err
	}

	a.log.Infof("Booking %s cancelled on slot %s", cancelled.ID, slotID)
	return cancelled, nil
}

// decideBooking runs the duplicate and capacity checks against the locked slot.
// When the visitor replaces a booking held on this same slot, that booking's
// people are released before the capacity comparison.
func decideBooking(slot *entity.VisitSlot, slotBookings, visitorBookings []entity.VisitBooking, party int, replaceExisting bool) error {
	if len(visitorBookings) > 0 && !replaceExisting {
		return ErrAlreadyBooked
	}
	if slot.IsSkipped {
		return ErrSlotSkipped
	}

	released := make(map[uuid.UUID]bool, len(visitorBookings))
	for _, b := range visitorBookings {
		released[b.ID] = true
	}

	occupied := 0
	for _, b := range slotBookings {
		if !released[b.ID] {
			occupied += b.NumberOfPeople
		}
	}

	if occupied+party > slot.MaxPeople {
		return ErrSlotFull
	}
	return nil
}

func bookingAuditEntry(action string, booking entity.VisitBooking) *entity.AuditLog {
	return &entity.AuditLog{
		Action: action,
		Metadata: entity.JSON{
			"entity":           "visit_booking",
			"entity_id":        booking.ID.String(),
			"slot_id":          booking.SlotID.String(),
			"schedule_id":      booking.ScheduleID.String(),
			"visitor_name":     booking.VisitorName,
			"number_of_people": booking.NumberOfPeople,
		},
	}
}
