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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidOldPassword = errors.New("old password is incorrect")
)

type CaregiverProfileUsecase interface {
	UpdateProfile(ctx context.Context, caregiverID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.CaregiverResponse, error)
}

type caregiverProfileUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	caregiverRepo repository.CaregiverRepository
	auditService  service.AuditService
}

func NewCaregiverProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	caregiverRepo repository.CaregiverRepository,
	auditService service.AuditService,
) CaregiverProfileUsecase {
	return &caregiverProfileUsecase{
		db:            db,
		log:           log,
		caregiverRepo: caregiverRepo,
		auditService:  auditService,
	}
}

// UpdateProfile changes the caregiver's name and, with the old password
// verified, the password. Email stays fixed.
func (u *caregiverProfileUsecase) UpdateProfile(ctx context.Context, caregiverID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.CaregiverResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	caregiver, err := u.caregiverRepo.FindByID(tx, caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find caregiver: %+v", err)
		return nil, err
	}
	if caregiver == nil {
		return nil, ErrCaregiverNotFound
	}

	oldValue := converter.CaregiverToResponse(caregiver)
	changed := []string{}

	if name := strings.TrimSpace(req.FullName); name != "" && name != caregiver.FullName {
		caregiver.FullName = name
		changed = append(changed, "full_name")
	}

	if req.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(caregiver.Password), []byte(req.OldPassword)); err != nil {
			return nil, ErrInvalidOldPassword
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		caregiver.Password = string(hashedPassword)
		changed = append(changed, "password")
	}

	if len(changed) == 0 {
		return oldValue, nil
	}

	if err := u.caregiverRepo.Update(tx, caregiver); err != nil {
		u.log.Warnf("Failed to update caregiver: %+v", err)
		return nil, err
	}

	// the password hash never reaches the audit trail, only the changed field names
	if err := u.auditService.LogUpdate(ctx, tx, &caregiverID, entity.AuditActionProfileUpdate, "caregiver", caregiverID.String(), oldValue, map[string]interface{}{
		"full_name": caregiver.FullName,
		"changed":   changed,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.CaregiverToResponse(caregiver), nil
}
