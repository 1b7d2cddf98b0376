package usecase

import (
	"context"
	"errors"
	"strings"

	"baby-visit-scheduler/internal/converter"
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"
	"baby-visit-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

var (
	ErrIncompleteBooking = errors.New("missing or incomplete data")
	ErrInvalidSlotID     = errors.New("invalid slot id")
)

type VisitBookingUsecase interface {
	Book(ctx context.Context, req *dto.PublicBookingRequest) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, req *dto.PublicCancelRequest) error
	GetPublicSchedule(ctx context.Context, code string) (*dto.PublicScheduleResponse, error)
	ListScheduleBookings(ctx context.Context, caregiverID, scheduleID uuid.UUID) (*dto.ScheduleBookingsResponse, error)
}

type visitBookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	arbiter      *service.BookingArbiter
	scheduleRepo repository.VisitScheduleRepository
	slotRepo     repository.VisitSlotRepository
	bookingRepo  repository.VisitBookingRepository
	babyRepo     repository.BabyRepository
	cache        *service.OccupancyCacheService
}

func NewVisitBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	arbiter *service.BookingArbiter,
	scheduleRepo repository.VisitScheduleRepository,
	slotRepo repository.VisitSlotRepository,
	bookingRepo repository.VisitBookingRepository,
	babyRepo repository.BabyRepository,
	cache *service.OccupancyCacheService,
) VisitBookingUsecase {
	return &visitBookingUsecase{
		db:           db,
		log:          log,
		arbiter:      arbiter,
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		babyRepo:     babyRepo,
		cache:        cache,
	}
}

func (u *visitBookingUsecase) Book(ctx context.Context, req *dto.PublicBookingRequest) (*dto.BookingResponse, error) {
	if strings.TrimSpace(req.SlotID) == "" || strings.TrimSpace(req.VisitorName) == "" || req.NumberOfPeople == 0 {
		return nil, ErrIncompleteBooking
	}
	slotID, err := uuid.Parse(strings.TrimSpace(req.SlotID))
	if err != nil {
		return nil, ErrInvalidSlotID
	}

	result, err := u.arbiter.Book(ctx, service.BookingRequest{
		SlotID:          slotID,
		VisitorName:     req.VisitorName,
		NumberOfPeople:  int(req.NumberOfPeople),
		ReplaceExisting: req.ReplaceExisting,
	})
	if err != nil {
		return nil, err
	}

	u.invalidateOccupancy(ctx, bookingSlotIDs(result)...)

	response := converter.BookingToResponse(result.Booking)
	return &response, nil
}

func (u *visitBookingUsecase) Cancel(ctx context.Context, req *dto.PublicCancelRequest) error {
	if strings.TrimSpace(req.SlotID) == "" || strings.TrimSpace(req.VisitorName) == "" {
		return ErrIncompleteBooking
	}
	slotID, err := uuid.Parse(strings.TrimSpace(req.SlotID))
	if err != nil {
		return ErrInvalidSlotID
	}

	cancelled, err := u.arbiter.Cancel(ctx, slotID, req.VisitorName)
	if err != nil {
		return err
	}

	u.invalidateOccupancy(ctx, cancelled.SlotID)
	return nil
}

// invalidateOccupancy drops the cached counters of slots a committed change
// touched. Cache failures are logged only; the database already holds the truth.
func (u *visitBookingUsecase) invalidateOccupancy(ctx context.Context, slotIDs ...uuid.UUID) {
	if err := u.cache.InvalidateSlots(ctx, slotIDs...); err != nil {
		u.log.Warnf("Failed to invalidate cached occupancy of %d slots: %+v", len(slotIDs), err)
	}
}

// bookingSlotIDs lists the target slot and every slot a replace freed
func bookingSlotIDs(result *service.BookingResult) []uuid.UUID {
	ids := []uuid.UUID{result.Slot.ID}
	for _, replaced := range result.Replaced {
		ids = append(ids, replaced.SlotID)
	}
	return ids
}

// GetPublicSchedule is the view behind a sharing code. Visitor names are
// never part of it.
func (u *visitBookingUsecase) GetPublicSchedule(ctx context.Context, code string) (*dto.PublicScheduleResponse, error) {
	scheduleID, err := uuid.Parse(strings.TrimSpace(code))
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	db := u.db.WithContext(ctx)
	schedule, err := u.scheduleRepo.FindByID(db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	var (
		baby   *entity.Baby
		slots  []entity.VisitSlot
		booked map[uuid.UUID]int
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		baby, err = u.babyRepo.FindByCaregiverID(u.db.WithContext(ctx), schedule.CaregiverID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		slots, err = u.slotRepo.FindByScheduleID(u.db.WithContext(ctx), scheduleID)
		if err != nil {
			return err
		}
		booked, err = loadOccupancy(ctx, u.db.WithContext(ctx), u.cache, u.bookingRepo, u.log, slots)
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to load public schedule %s: %+v", scheduleID, err)
		return nil, err
	}

	return converter.PublicScheduleToResponse(schedule, baby, slots, booked), nil
}

func (u *visitBookingUsecase) ListScheduleBookings(ctx context.Context, caregiverID, scheduleID uuid.UUID) (*dto.ScheduleBookingsResponse, error) {
	db := u.db.WithContext(ctx)

	if _, err := findOwnedSchedule(db, u.scheduleRepo, caregiverID, scheduleID, false); err != nil {
		if !errors.Is(err, ErrScheduleNotFound) {
			u.log.Warnf("Failed to find schedule: %+v", err)
		}
		return nil, err
	}

	slots, err := u.slotRepo.FindByScheduleID(db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find slots: %+v", err)
		return nil, err
	}

	bookings, err := u.bookingRepo.FindByScheduleID(db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find bookings: %+v", err)
		return nil, err
	}

	return converter.ScheduleBookingsToResponse(scheduleID, slots, bookings), nil
}
