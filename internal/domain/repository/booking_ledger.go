package repository

import (
	"context"

	"baby-visit-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingLedger is the transactional view of slots and bookings the booking
// arbiter works against. Every method runs inside the transaction opened by
// BookingLedgerRunner.RunInTx.
type BookingLedger interface {
	// LockSlot returns the slot and holds it until the transaction ends,
	// or nil when the slot does not exist.
	LockSlot(slotID uuid.UUID) (*entity.VisitSlot, error)
	FindVisitorBookings(scheduleID uuid.UUID, visitorName string) ([]entity.VisitBooking, error)
	FindSlotBookings(slotID uuid.UUID) ([]entity.VisitBooking, error)
	FindSlotBookingByVisitor(slotID uuid.UUID, visitorName string) (*entity.VisitBooking, error)
	DeleteBookings(ids []uuid.UUID) error
	// InsertBooking returns ErrDuplicateVisitorBooking when the visitor
	// already holds a booking in the schedule.
	InsertBooking(booking *entity.VisitBooking) error
	InsertAuditLog(log *entity.AuditLog) error
}

// BookingLedgerRunner runs fn in a single transaction. A non-nil error from
// fn rolls back every write made through the ledger.
type BookingLedgerRunner interface {
	RunInTx(ctx context.Context, fn func(ledger BookingLedger) error) error
}
