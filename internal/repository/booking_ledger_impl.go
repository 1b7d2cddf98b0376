package repository

import (
	"context"

	"baby-visit-scheduler/internal/domain/entity"
	domainRepo "baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// bookingLedgerRunner opens one database transaction per booking decision.
// The slot row is locked with SELECT ... FOR UPDATE, so concurrent bookings
// on the same slot check capacity one after another against committed data.
type bookingLedgerRunner struct {
	db          *gorm.DB
	slotRepo    domainRepo.VisitSlotRepository
	bookingRepo domainRepo.VisitBookingRepository
	auditRepo   domainRepo.AuditLogRepository
}

func NewBookingLedgerRunner(
	db *gorm.DB,
	slotRepo domainRepo.VisitSlotRepository,
	bookingRepo domainRepo.VisitBookingRepository,
	auditRepo domainRepo.AuditLogRepository,
) domainRepo.BookingLedgerRunner {
	return &bookingLedgerRunner{
		db:          db,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		auditRepo:   auditRepo,
	}
}

func (r *bookingLedgerRunner) RunInTx(ctx context.Context, fn func(ledger domainRepo.BookingLedger) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&bookingLedger{
			tx:          tx,
			slotRepo:    r.slotRepo,
			bookingRepo: r.bookingRepo,
			auditRepo:   r.auditRepo,
		})
	})
}

type bookingLedger struct {
	tx          *gorm.DB
	slotRepo    domainRepo.VisitSlotRepository
	bookingRepo domainRepo.VisitBookingRepository
	auditRepo   domainRepo.AuditLogRepository
}

func (l *bookingLedger) LockSlot(slotID uuid.UUID) (*entity.VisitSlot, error) {
	return l.slotRepo.FindByIDForUpdate(l.tx, slotID)
}

func (l *bookingLedger) FindVisitorBookings(scheduleID uuid.UUID, visitorName string) ([]entity.VisitBooking, error) {
	return l.bookingRepo.FindByScheduleAndVisitor(l.tx, scheduleID, visitorName)
}

func (l *bookingLedger) FindSlotBookings(slotID uuid.UUID) ([]entity.VisitBooking, error) {
	return l.bookingRepo.FindBySlotID(l.tx, slotID)
}

func (l *bookingLedger) FindSlotBookingByVisitor(slotID uuid.UUID, visitorName string) (*entity.VisitBooking, error) {
	return l.bookingRepo.FindBySlotAndVisitor(l.tx, slotID, visitorName)
}

func (l *bookingLedger) DeleteBookings(ids []uuid.UUID) error {
	_, err := l.bookingRepo.DeleteByIDs(l.tx, ids)
	return err
}

func (l *bookingLedger) InsertBooking(booking *entity.VisitBooking) error {
	return l.bookingRepo.Create(l.tx, booking)
}

func (l *bookingLedger) InsertAuditLog(log *entity.AuditLog) error {
	return l.auditRepo.Create(l.tx, log)
}
