package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"
	"baby-visit-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidResetToken = errors.New("reset link is invalid or has expired")

type PasswordResetUsecase interface {
	RequestReset(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type passwordResetUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	caregiverRepo repository.CaregiverRepository
	auditService  service.AuditService
	notifier      service.PasswordResetNotifier
	redisClient   *redis.Client
	expiry        time.Duration
}

func NewPasswordResetUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	caregiverRepo repository.CaregiverRepository,
	auditService service.AuditService,
	notifier service.PasswordResetNotifier,
	redisClient *redis.Client,
	expiry time.Duration,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		db:            db,
		log:           log,
		caregiverRepo: caregiverRepo,
		auditService:  auditService,
		notifier:      notifier,
		redisClient:   redisClient,
		expiry:        expiry,
	}
}

func resetTokenKey(token string) string {
	return "password_reset:" + token
}

// RequestReset sends a single-use reset link. Unknown emails succeed
// silently so the endpoint does not reveal who has an account.
func (u *passwordResetUsecase) RequestReset(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	caregiver, err := u.caregiverRepo.FindByEmail(u.db.WithContext(ctx), strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find caregiver by email: %+v", err)
		return err
	}
	if caregiver == nil {
		u.log.Debug("Password reset requested for unknown email")
		return nil
	}

	token := uuid.NewString()
	if err := u.redisClient.Set(ctx, resetTokenKey(token), caregiver.ID.String(), u.expiry).Err(); err != nil {
		u.log.Warnf("Failed to store reset token: %+v", err)
		return err
	}

	if err := u.notifier.SendPasswordReset(ctx, caregiver, token); err != nil {
		u.log.Warnf("Failed to send reset link to caregiver %s: %+v", caregiver.ID, err)
		_ = u.redisClient.Del(ctx, resetTokenKey(token)).Err()
		return err
	}
	return nil
}

// ResetPassword consumes the token, stores the new password and signs the
// caregiver out everywhere
func (u *passwordResetUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	value, err := u.redisClient.GetDel(ctx, resetTokenKey(strings.TrimSpace(req.Token))).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidResetToken
	}
	if err != nil {
		u.log.Warnf("Failed to read reset token: %+v", err)
		return err
	}
	caregiverID, err := uuid.Parse(value)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	caregiver, err := u.caregiverRepo.FindByID(tx, caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find caregiver: %+v", err)
		return err
	}
	if caregiver == nil {
		return ErrInvalidResetToken
	}

	caregiver.Password = string(hashedPassword)
	if err := u.caregiverRepo.Update(tx, caregiver); err != nil {
		u.log.Warnf("Failed to update caregiver: %+v", err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &caregiverID, entity.AuditActionPasswordReset, "caregiver", caregiverID.String(), nil, map[string]interface{}{
		"changed": []string{"password"},
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.revokeSessions(ctx, caregiverID); err != nil {
		u.log.Warnf("Failed to revoke sessions of caregiver %s: %+v", caregiverID, err)
	}

	u.log.Infof("Password reset for caregiver %s", caregiverID)
	return nil
}

// revokeSessions drops every stored access and refresh token of the caregiver
func (u *passwordResetUsecase) revokeSessions(ctx context.Context, caregiverID uuid.UUID) error {
	for _, pattern := range []string{accessTokenKey(caregiverID, "*"), refreshTokenKey(caregiverID, "*")} {
		var keys []string
		iter := u.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
	}
	return nil
}
