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
	ErrOfferNotFound          = errors.New("offer not found")
	ErrTransactionAlreadyUsed = errors.New("transaction was already used by another account")
)

type EntitlementUsecase interface {
	ListOffers(ctx context.Context) (*dto.OfferListResponse, error)
	Purchase(ctx context.Context, caregiverID, offerID uuid.UUID, req *dto.PurchaseOfferRequest) (*dto.EntitlementResponse, error)
	Restore(ctx context.Context, caregiverID uuid.UUID, req *dto.RestoreEntitlementsRequest) (*dto.EntitlementStatusResponse, error)
	GetStatus(ctx context.Context, caregiverID uuid.UUID) (*dto.EntitlementStatusResponse, error)
}

type entitlementUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	offerRepo       repository.OfferRepository
	entitlementRepo repository.EntitlementRepository
	planService     *service.PlanService
	auditService    service.AuditService
}

func NewEntitlementUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	offerRepo repository.OfferRepository,
	entitlementRepo repository.EntitlementRepository,
	planService *service.PlanService,
	auditService service.AuditService,
) EntitlementUsecase {
	return &entitlementUsecase{
		db:              db,
		log:             log,
		offerRepo:       offerRepo,
		entitlementRepo: entitlementRepo,
		planService:     planService,
		auditService:    auditService,
	}
}

func (u *entitlementUsecase) ListOffers(ctx context.Context) (*dto.OfferListResponse, error) {
	offers, err := u.offerRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find offers: %+v", err)
		return nil, err
	}
	return &dto.OfferListResponse{Offers: converter.OffersToResponses(offers)}, nil
}

// Purchase records a store transaction as a premium period. Replaying the
// same transaction for the same caregiver returns the existing entitlement.
func (u *entitlementUsecase) Purchase(ctx context.Context, caregiverID, offerID uuid.UUID, req *dto.PurchaseOfferRequest) (*dto.EntitlementResponse, error) {
	transactionID := strings.TrimSpace(req.TransactionID)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	offer, err := u.offerRepo.FindByID(tx, offerID)
	if err != nil {
		u.log.Warnf("Failed to find offer: %+v", err)
		return nil, err
	}
	if offer == nil || !offer.IsActive {
		return nil, ErrOfferNotFound
	}

	existing, err := u.entitlementRepo.FindByTransactionID(tx, transactionID)
	if err != nil {
		u.log.Warnf("Failed to find entitlement: %+v", err)
		return nil, err
	}
	if existing != nil {
		if existing.CaregiverID != caregiverID {
			return nil, ErrTransactionAlreadyUsed
		}
		existing.Offer = offer
		response := converter.EntitlementToResponse(existing)
		return &response, nil
	}

	start, err := u.planService.RenewalStart(tx, caregiverID)
	if err != nil {
		u.log.Warnf("Failed to compute renewal start: %+v", err)
		return nil, err
	}

	entitlement := &entity.Entitlement{
		CaregiverID:   caregiverID,
		OfferID:       offer.ID,
		TransactionID: transactionID,
		ActiveUntil:   start.AddDate(0, 0, offer.PeriodDays),
	}
	if err := u.entitlementRepo.Create(tx, entitlement); err != nil {
		if repoimpl.IsDuplicateKeyError(err, "transaction_id") {
			return nil, ErrTransactionAlreadyUsed
		}
		u.log.Warnf("Failed to create entitlement: %+v", err)
		return nil, err
	}
	entitlement.Offer = offer

	response := converter.EntitlementToResponse(entitlement)
	if err := u.auditService.LogCreate(ctx, tx, &caregiverID, entity.AuditActionOfferPurchase, "entitlement", entitlement.ID.String(), map[string]interface{}{
		"offer":        offer.Identifier,
		"price":        offer.Price.StringFixed(2),
		"currency":     offer.Currency,
		"active_until": entitlement.ActiveUntil,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Caregiver %s purchased %s until %s", caregiverID, offer.Identifier, entitlement.ActiveUntil.Format(dateLayout))
	return &response, nil
}

// Restore checks store transactions against recorded entitlements.
// Transactions of other accounts and unknown ones are ignored.
func (u *entitlementUsecase) Restore(ctx context.Context, caregiverID uuid.UUID, req *dto.RestoreEntitlementsRequest) (*dto.EntitlementStatusResponse, error) {
	db := u.db.WithContext(ctx)

	restored := 0
	for _, transactionID := range req.TransactionIDs {
		existing, err := u.entitlementRepo.FindByTransactionID(db, strings.TrimSpace(transactionID))
		if err != nil {
			u.log.Warnf("Failed to find entitlement: %+v", err)
			return nil, err
		}
		if existing != nil && existing.CaregiverID == caregiverID {
			restored++
		}
	}
	u.log.Infof("Caregiver %s restored %d of %d transactions", caregiverID, restored, len(req.TransactionIDs))

	return u.GetStatus(ctx, caregiverID)
}

func (u *entitlementUsecase) GetStatus(ctx context.Context, caregiverID uuid.UUID) (*dto.EntitlementStatusResponse, error) {
	active, err := u.planService.ActiveEntitlements(u.db.WithContext(ctx), caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find entitlements: %+v", err)
		return nil, err
	}

	return &dto.EntitlementStatusResponse{
		IsPremium:           len(active) > 0,
		FreeMaxScheduleDays: u.planService.FreeMaxDays(),
		Entitlements:        converter.EntitlementsToResponses(active),
	}, nil
}
