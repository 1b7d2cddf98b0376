package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baby-visit-scheduler/internal/converter"
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"
	repoimpl "baby-visit-scheduler/internal/repository"
	"baby-visit-scheduler/internal/service"
	"baby-visit-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrCaregiverNotFound  = errors.New("caregiver not found")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.CaregiverResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, caregiverID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentCaregiver(ctx context.Context, caregiverID uuid.UUID) (*dto.CaregiverResponse, error)
}

type authUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	caregiverRepo repository.CaregiverRepository
	babyRepo      repository.BabyRepository
	auditService  service.AuditService
	jwtService    *jwt.JWTService
	redisClient   *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	caregiverRepo repository.CaregiverRepository,
	babyRepo repository.BabyRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:            db,
		log:           log,
		caregiverRepo: caregiverRepo,
		babyRepo:      babyRepo,
		auditService:  auditService,
		jwtService:    jwtService,
		redisClient:   redisClient,
	}
}

func accessTokenKey(caregiverID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", caregiverID.String(), tokenID)
}

func refreshTokenKey(caregiverID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", caregiverID.String(), tokenID)
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.CaregiverResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	caregiver := &entity.Caregiver{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
	}

	if err := u.caregiverRepo.Create(tx, caregiver); err != nil {
		if repoimpl.IsDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create caregiver: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &caregiver.ID, entity.AuditActionCaregiverRegister, "caregiver", caregiver.ID.String(), caregiver.Email); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Caregiver %s registered", caregiver.ID)
	return converter.CaregiverToResponse(caregiver), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	caregiver, err := u.caregiverRepo.FindByEmail(u.db.WithContext(ctx), strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find caregiver by email: %+v", err)
		return nil, err
	}
	if caregiver == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(caregiver.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, caregiver.ID, caregiver.Email)
}

// Logout revokes the access token and, when known, the refresh token
func (u *authUsecase) Logout(ctx context.Context, caregiverID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{accessTokenKey(caregiverID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, refreshTokenKey(caregiverID, refreshTokenID))
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// DEL reports whether the key existed, so a refresh token is single use
	deleted, err := u.redisClient.Del(ctx, refreshTokenKey(claims.CaregiverID, claims.TokenID)).Result()
	if err != nil {
		u.log.Warnf("Failed to consume refresh token: %+v", err)
		return nil, err
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.CaregiverID, claims.Email)
}

func (u *authUsecase) issueTokens(ctx context.Context, caregiverID uuid.UUID, email string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(caregiverID, email)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(caregiverID, email)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	pipe := u.redisClient.TxPipeline()
	pipe.Set(ctx, accessTokenKey(caregiverID, accessTokenID), "valid", u.jwtService.GetAccessExpiry())
	pipe.Set(ctx, refreshTokenKey(caregiverID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry())
	if _, err := pipe.Exec(ctx); err != nil {
		u.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) GetCurrentCaregiver(ctx context.Context, caregiverID uuid.UUID) (*dto.CaregiverResponse, error) {
	db := u.db.WithContext(ctx)

	caregiver, err := u.caregiverRepo.FindByID(db, caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find caregiver by ID: %+v", err)
		return nil, err
	}
	if caregiver == nil {
		return nil, ErrCaregiverNotFound
	}

	baby, err := u.babyRepo.FindByCaregiverID(db, caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find baby: %+v", err)
		return nil, err
	}
	caregiver.Baby = baby

	return converter.CaregiverToResponse(caregiver), nil
}
