package usecase

import (
	"context"
	"errors"

	"baby-visit-scheduler/internal/converter"
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type AuditLogUsecase interface {
	GetActivity(ctx context.Context, caregiverID uuid.UUID, limit int) (*dto.AuditLogListResponse, error)
	GetScheduleActivity(ctx context.Context, caregiverID, scheduleID uuid.UUID, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
	scheduleRepo repository.VisitScheduleRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	scheduleRepo repository.VisitScheduleRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
		scheduleRepo: scheduleRepo,
	}
}

func (u *auditLogUsecase) GetActivity(ctx context.Context, caregiverID uuid.UUID, limit int) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindByCaregiverID(u.db.WithContext(ctx), caregiverID, clampLimit(limit))
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

// GetScheduleActivity lists bookings made, replaced and cancelled on one schedule
func (u *auditLogUsecase) GetScheduleActivity(ctx context.Context, caregiverID, scheduleID uuid.UUID, limit int) (*dto.AuditLogListResponse, error) {
	db := u.db.WithContext(ctx)

	if _, err := findOwnedSchedule(db, u.scheduleRepo, caregiverID, scheduleID, false); err != nil {
		if !errors.Is(err, ErrScheduleNotFound) {
			u.log.Warnf("Failed to find schedule: %+v", err)
		}
		return nil, err
	}

	logs, err := u.auditLogRepo.FindByScheduleID(db, scheduleID, clampLimit(limit))
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultActivityLimit
	}
	if limit > maxActivityLimit {
		return maxActivityLimit
	}
	return limit
}
