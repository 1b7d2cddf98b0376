package usecase

import (
	"context"
	"errors"
	"fmt"

	"baby-visit-scheduler/internal/converter"
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"
	repoimpl "baby-visit-scheduler/internal/repository"
	"baby-visit-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotConflict        = errors.New("slot overlaps an existing slot")
	ErrCapacityBelowBooked = errors.New("max people cannot be lower than the people already booked")
	ErrNoSlotsGenerated    = errors.New("time range produced no slots")
	ErrVisitSlotNotFound   = errors.New("slot not found")
	ErrInvalidSlotValues   = errors.New("slot duration and max people must be positive")
)

// SlotConflictError lists the proposed slots that overlap existing ones
type SlotConflictError struct {
	Conflicts []service.SlotCandidate
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%d slot(s) overlap existing slots", len(e.Conflicts))
}

func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

type VisitSlotUsecase interface {
	GenerateSlots(ctx context.Context, caregiverID, scheduleID uuid.UUID, req *dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error)
	ListSlots(ctx context.Context, caregiverID, scheduleID uuid.UUID) (*dto.SlotListResponse, error)
	UpdateSlot(ctx context.Context, caregiverID, slotID uuid.UUID, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	DeleteSlot(ctx context.Context, caregiverID, slotID uuid.UUID) error
}

type visitSlotUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	scheduleRepo repository.VisitScheduleRepository
	slotRepo     repository.VisitSlotRepository
	bookingRepo  repository.VisitBookingRepository
	auditService service.AuditService
	cache        *service.OccupancyCacheService
}

func NewVisitSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	scheduleRepo repository.VisitScheduleRepository,
	slotRepo repository.VisitSlotRepository,
	bookingRepo repository.VisitBookingRepository,
	auditService service.AuditService,
	cache *service.OccupancyCacheService,
) VisitSlotUsecase {
	return &visitSlotUsecase{
		db:           db,
		log:          log,
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		cache:        cache,
	}
}

func (u *visitSlotUsecase) GenerateSlots(ctx context.Context, caregiverID, scheduleID uuid.UUID, req *dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error) {
	duration, err := service.ParseDurationMinutes(req.DurationMinutes.String())
	if err != nil {
		return nil, err
	}
	capacity, err := service.ParseCapacity(req.MaxPeople.String())
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	startOffset, err := entity.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	endOffset, err := entity.ParseClock(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	// the schedule row lock serializes slot edits of one schedule
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	schedule, err := findOwnedSchedule(tx, u.scheduleRepo, caregiverID, scheduleID, true)
	if err != nil {
		if !errors.Is(err, ErrScheduleNotFound) {
			u.log.Warnf("Failed to find schedule: %+v", err)
		}
		return nil, err
	}

	if err := service.ValidateSlotDate(schedule, date); err != nil {
		return nil, err
	}

	dates, err := service.ExpandRepeatDates(date, req.RepeatRule, schedule.EndDate)
	if err != nil {
		return nil, err
	}

	var toCreate, conflicts []service.SlotCandidate
	for _, day := range dates {
		candidates, err := service.GenerateSlots(day.Add(startOffset), day.Add(endOffset), duration, capacity)
		if err != nil {
			return nil, err
		}

		existing, err := u.slotRepo.FindByScheduleAndDate(tx, scheduleID, day)
		if err != nil {
			u.log.Warnf("Failed to find slots on %s: %+v", day.Format(dateLayout), err)
			return nil, err
		}

		clean, conflicting, err := service.SplitConflicts(candidates, existing, uuid.Nil)
		if err != nil {
			u.log.Warnf("Failed to check slot conflicts: %+v", err)
			return nil, err
		}
		toCreate = append(toCreate, clean...)
		conflicts = append(conflicts, conflicting...)
	}

	if len(conflicts) > 0 && !req.CreateNonConflicting {
		return nil, &SlotConflictError{Conflicts: conflicts}
	}
	if len(toCreate) == 0 {
		if len(conflicts) > 0 {
			return nil, &SlotConflictError{Conflicts: conflicts}
		}
		return nil, ErrNoSlotsGenerated
	}

	slots := make([]entity.VisitSlot, len(toCreate))
	for i, c := range toCreate {
		slots[i] = entity.VisitSlot{
			ScheduleID:      scheduleID,
			Date:            entity.DateOnly(c.StartTime),
			StartTime:       c.Clock(),
			DurationMinutes: c.DurationMinutes,
			MaxPeople:       capacity,
		}
	}

	if err := u.slotRepo.CreateBatch(tx, slots); err != nil {
		if repoimpl.IsCheckViolation(err) {
			return nil, ErrInvalidSlotValues
		}
		u.log.Warnf("Failed to create slots: %+v", err)
		return nil, err
	}

	created := converter.SlotsToResponses(slots, nil)
	if err := u.auditService.LogCreate(ctx, tx, &caregiverID, entity.AuditActionSlotsGenerate, "visit_slot", scheduleID.String(), map[string]interface{}{
		"schedule_id": scheduleID.String(),
		"repeat_rule": req.RepeatRule,
		"slots":       created,
		"conflicts":   len(conflicts),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if _, err := u.cache.SyncSlots(ctx, u.db.WithContext(ctx), slots); err != nil {
		u.log.Warnf("Failed to cache new slots of schedule %s: %+v", scheduleID, err)
	}

	u.log.Infof("Generated %d slots for schedule %s across %d day(s), %d conflicting skipped",
		len(slots), scheduleID, len(dates), len(conflicts))

	return &dto.GenerateSlotsResponse{
		Created:   created,
		Conflicts: converter.CandidatesToConflicts(conflicts),
	}, nil
}

func (u *visitSlotUsecase) ListSlots(ctx context.Context, caregiverID, scheduleID uuid.UUID) (*dto.SlotListResponse, error) {
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

	booked, err := loadOccupancy(ctx, db, u.cache, u.bookingRepo, u.log, slots)
	if err != nil {
		u.log.Warnf("Failed to load occupancy: %+v", err)
		return nil, err
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots, booked),
		Total: len(slots),
	}, nil
}

func (u *visitSlotUsecase) UpdateSlot(ctx context.Context, caregiverID, slotID uuid.UUID, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	duration, err := service.ParseDurationMinutes(req.DurationMinutes.String())
	if err != nil {
		return nil, err
	}
	capacity, err := service.ParseCapacity(req.MaxPeople.String())
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := parseClockOn(date, req.StartTime)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	schedule, slot, err := u.lockOwnedSlot(tx, caregiverID, slotID)
	if err != nil {
		return nil, err
	}
	scheduleID := schedule.ID
	oldValue := converter.SlotToResponse(slot, 0)

	if err := service.ValidateSlotDate(schedule, date); err != nil {
		return nil, err
	}

	// a skipped slot takes no visitors, so it may overlap others
	if !req.IsSkipped {
		existing, err := u.slotRepo.FindByScheduleAndDate(tx, scheduleID, date)
		if err != nil {
			u.log.Warnf("Failed to find slots on %s: %+v", req.Date, err)
			return nil, err
		}
		candidate := service.SlotCandidate{StartTime: start, DurationMinutes: duration}
		conflicts, err := service.DetectConflicts([]service.SlotCandidate{candidate}, existing, slot.ID)
		if err != nil {
			u.log.Warnf("Failed to check slot conflicts: %+v", err)
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &SlotConflictError{Conflicts: conflicts}
		}
	}

	sums, err := u.bookingRepo.SumPeopleBySlotIDs(tx, []uuid.UUID{slot.ID})
	if err != nil {
		u.log.Warnf("Failed to sum bookings: %+v", err)
		return nil, err
	}
	booked := sums[slot.ID]
	if capacity < booked {
		return nil, fmt.Errorf("%w (%d booked)", ErrCapacityBelowBooked, booked)
	}

	slot.Date = date
	slot.StartTime = start.Format(entity.SlotTimeLayout)
	slot.DurationMinutes = duration
	slot.MaxPeople = capacity
	slot.IsSkipped = req.IsSkipped

	if err := u.slotRepo.Update(tx, slot); err != nil {
		if repoimpl.IsCheckViolation(err) {
			return nil, ErrInvalidSlotValues
		}
		u.log.Warnf("Failed to update slot: %+v", err)
		return nil, err
	}

	response := converter.SlotToResponse(slot, booked)
	if err := u.auditService.LogUpdate(ctx, tx, &caregiverID, entity.AuditActionSlotUpdate, "visit_slot", slot.ID.String(), oldValue, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// the date may have moved, which changes the key TTL
	if _, err := u.cache.SyncSlots(ctx, u.db.WithContext(ctx), []entity.VisitSlot{*slot}); err != nil {
		u.log.Warnf("Failed to refresh cached occupancy of slot %s: %+v", slot.ID, err)
	}

	return &response, nil
}

func (u *visitSlotUsecase) DeleteSlot(ctx context.Context, caregiverID, slotID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	_, slot, err := u.lockOwnedSlot(tx, caregiverID, slotID)
	if err != nil {
		return err
	}

	if _, err := u.slotRepo.Delete(tx, slot.ID); err != nil {
		u.log.Warnf("Failed to delete slot: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &caregiverID, entity.AuditActionSlotDelete, "visit_slot", slot.ID.String(), converter.SlotToResponse(slot, 0)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.cache.DeleteSlotKeys(ctx, slot.ID); err != nil {
		u.log.Warnf("Failed to drop cached occupancy of slot %s: %+v", slot.ID, err)
	}
	return nil
}

// lockOwnedSlot locks the slot's schedule, then the slot. Slots of other
// caregivers are reported as not found.
func (u *visitSlotUsecase) lockOwnedSlot(tx *gorm.DB, caregiverID, slotID uuid.UUID) (*entity.VisitSchedule, *entity.VisitSlot, error) {
	found, err := u.slotRepo.FindByID(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot: %+v", err)
		return nil, nil, err
	}
	if found == nil {
		return nil, nil, ErrVisitSlotNotFound
	}

	schedule, err := findOwnedSchedule(tx, u.scheduleRepo, caregiverID, found.ScheduleID, true)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return nil, nil, ErrVisitSlotNotFound
		}
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, nil, err
	}

	slot, err := u.slotRepo.FindByIDForUpdate(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to lock slot: %+v", err)
		return nil, nil, err
	}
	if slot == nil {
		return nil, nil, ErrVisitSlotNotFound
	}
	return schedule, slot, nil
}
