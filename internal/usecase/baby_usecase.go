package usecase

import (
	"context"
	"strings"

	"baby-visit-scheduler/internal/converter"
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BabyUsecase interface {
	GetBaby(ctx context.Context, caregiverID uuid.UUID) (*dto.BabyResponse, error)
	SaveBaby(ctx context.Context, caregiverID uuid.UUID, req *dto.UpsertBabyRequest) (*dto.BabyResponse, error)
}

type babyUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	babyRepo repository.BabyRepository
}

func NewBabyUsecase(db *gorm.DB, log *logrus.Logger, babyRepo repository.BabyRepository) BabyUsecase {
	return &babyUsecase{
		db:       db,
		log:      log,
		babyRepo: babyRepo,
	}
}

// GetBaby returns nil data when the caregiver has not filled the profile yet
func (u *babyUsecase) GetBaby(ctx context.Context, caregiverID uuid.UUID) (*dto.BabyResponse, error) {
	baby, err := u.babyRepo.FindByCaregiverID(u.db.WithContext(ctx), caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find baby: %+v", err)
		return nil, err
	}
	return converter.BabyToResponse(baby), nil
}

func (u *babyUsecase) SaveBaby(ctx context.Context, caregiverID uuid.UUID, req *dto.UpsertBabyRequest) (*dto.BabyResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	baby, err := u.babyRepo.FindByCaregiverID(tx, caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find baby: %+v", err)
		return nil, err
	}
	if baby == nil {
		baby = &entity.Baby{CaregiverID: caregiverID}
	}

	baby.Name = nil
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			baby.Name = &name
		}
	}
	baby.Gender = nil
	if req.Gender != nil {
		gender := entity.BabyGender(*req.Gender)
		baby.Gender = &gender
	}

	if err := u.babyRepo.Save(tx, baby); err != nil {
		u.log.Warnf("Failed to save baby: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.BabyToResponse(baby), nil
}
