package usecase

import (
	"context"
	"errors"
	"strings"

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
	ErrInvalidScheduleRange = errors.New("end date must be on or after start date")
	ErrSlotsOutsideRange    = errors.New("schedule still has slots outside the new date range")
)

type VisitScheduleUsecase interface {
	CreateSchedule(ctx context.Context, caregiverID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, caregiverID, scheduleID uuid.UUID) (*dto.ScheduleResponse, error)
	ListSchedules(ctx context.Context, caregiverID uuid.UUID) (*dto.ScheduleListResponse, error)
	UpdateSchedule(ctx context.Context, caregiverID, scheduleID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, caregiverID, scheduleID uuid.UUID) error
}

type visitScheduleUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	scheduleRepo repository.VisitScheduleRepository
	slotRepo     repository.VisitSlotRepository
	planService  *service.PlanService
	auditService service.AuditService
	cache        *service.OccupancyCacheService
}

func NewVisitScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	scheduleRepo repository.VisitScheduleRepository,
	slotRepo repository.VisitSlotRepository,
	planService *service.PlanService,
	auditService service.AuditService,
	cache *service.OccupancyCacheService,
) VisitScheduleUsecase {
	return &visitScheduleUsecase{
		db:           db,
		log:          log,
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		planService:  planService,
		auditService: auditService,
		cache:        cache,
	}
}

func (u *visitScheduleUsecase) CreateSchedule(ctx context.Context, caregiverID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule := &entity.VisitSchedule{CaregiverID: caregiverID}
	if err := applyScheduleFields(schedule, req.Name, req.StartDate, req.EndDate, req.CustomMessage); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.planService.CheckScheduleSpan(tx, caregiverID, schedule); err != nil {
		if !errors.Is(err, service.ErrPlanLimitExceeded) {
			u.log.Warnf("Failed to check plan: %+v", err)
		}
		return nil, err
	}

	if err := u.scheduleRepo.Create(tx, schedule); err != nil {
		if repoimpl.IsCheckViolation(err) {
			return nil, ErrInvalidScheduleRange
		}
		u.log.Warnf("Failed to create schedule: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &caregiverID, entity.AuditActionScheduleCreate, "visit_schedule", schedule.ID.String(), converter.ScheduleToResponse(schedule)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Schedule %s created by caregiver %s", schedule.ID, caregiverID)
	return converter.ScheduleToResponse(schedule), nil
}

func (u *visitScheduleUsecase) GetSchedule(ctx context.Context, caregiverID, scheduleID uuid.UUID) (*dto.ScheduleResponse, error) {
	db := u.db.WithContext(ctx)

	schedule, err := findOwnedSchedule(db, u.scheduleRepo, caregiverID, scheduleID, false)
	if err != nil {
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
	schedule.Slots = slots

	return converter.ScheduleToResponse(schedule), nil
}

func (u *visitScheduleUsecase) ListSchedules(ctx context.Context, caregiverID uuid.UUID) (*dto.ScheduleListResponse, error) {
	schedules, err := u.scheduleRepo.FindByCaregiverID(u.db.WithContext(ctx), caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find schedules: %+v", err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

func (u *visitScheduleUsecase) UpdateSchedule(ctx context.Context, caregiverID, scheduleID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	schedule, err := findOwnedSchedule(tx, u.scheduleRepo, caregiverID, scheduleID, true)
	if err != nil {
		if !errors.Is(err, ErrScheduleNotFound) {
			u.log.Warnf("Failed to find schedule: %+v", err)
		}
		return nil, err
	}
	oldValue := converter.ScheduleToResponse(schedule)

	if err := applyScheduleFields(schedule, req.Name, req.StartDate, req.EndDate, req.CustomMessage); err != nil {
		return nil, err
	}

	if err := u.planService.CheckScheduleSpan(tx, caregiverID, schedule); err != nil {
		if !errors.Is(err, service.ErrPlanLimitExceeded) {
			u.log.Warnf("Failed to check plan: %+v", err)
		}
		return nil, err
	}

	outside, err := u.slotRepo.CountOutsideRange(tx, scheduleID, schedule.StartDate, schedule.EndDate)
	if err != nil {
		u.log.Warnf("Failed to count slots outside range: %+v", err)
		return nil, err
	}
	if outside > 0 {
		return nil, ErrSlotsOutsideRange
	}

	if err := u.scheduleRepo.Update(tx, schedule); err != nil {
		if repoimpl.IsCheckViolation(err) {
			return nil, ErrInvalidScheduleRange
		}
		u.log.Warnf("Failed to update schedule: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &caregiverID, entity.AuditActionScheduleUpdate, "visit_schedule", scheduleID.String(), oldValue, converter.ScheduleToResponse(schedule)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *visitScheduleUsecase) DeleteSchedule(ctx context.Context, caregiverID, scheduleID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	schedule, err := findOwnedSchedule(tx, u.scheduleRepo, caregiverID, scheduleID, true)
	if err != nil {
		if !errors.Is(err, ErrScheduleNotFound) {
			u.log.Warnf("Failed to find schedule: %+v", err)
		}
		return err
	}

	slots, err := u.slotRepo.FindByScheduleID(tx, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find slots: %+v", err)
		return err
	}

	if _, err := u.scheduleRepo.Delete(tx, scheduleID); err != nil {
		u.log.Warnf("Failed to delete schedule: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &caregiverID, entity.AuditActionScheduleDelete, "visit_schedule", scheduleID.String(), converter.ScheduleToResponse(schedule)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	slotIDs := make([]uuid.UUID, len(slots))
	for i, slot := range slots {
		slotIDs[i] = slot.ID
	}
	if err := u.cache.DeleteSlotKeys(ctx, slotIDs...); err != nil {
		u.log.Warnf("Failed to drop cached occupancy of schedule %s: %+v", scheduleID, err)
	}

	u.log.Infof("Schedule %s deleted with %d slots", scheduleID, len(slots))
	return nil
}

func applyScheduleFields(schedule *entity.VisitSchedule, name *string, startDate, endDate string, customMessage *string) error {
	start, err := parseDate(startDate)
	if err != nil {
		return err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return ErrInvalidScheduleRange
	}

	schedule.Name = trimmedOrNil(name)
	schedule.StartDate = start
	schedule.EndDate = end
	schedule.CustomMessage = trimmedOrNil(customMessage)
	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
