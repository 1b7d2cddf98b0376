package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type PurchaseOfferRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,max=255"`
}

type RestoreEntitlementsRequest struct {
	TransactionIDs []string `json:"transaction_ids" validate:"required,min=1,max=50,dive,required,max=255"`
}

// Response DTOs

type OfferResponse struct {
	ID          uuid.UUID       `json:"id"`
	Identifier  string          `json:"identifier"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	PeriodDays  int             `json:"period_days"`
}

type OfferListResponse struct {
	Offers []OfferResponse `json:"offers"`
}

type EntitlementResponse struct {
	ID            uuid.UUID `json:"id"`
	OfferID       uuid.UUID `json:"offer_id"`
	OfferName     string    `json:"offer_name,omitempty"`
	TransactionID string    `json:"transaction_id"`
	ActiveUntil   time.Time `json:"active_until"`
}

type EntitlementStatusResponse struct {
	IsPremium           bool                  `json:"is_premium"`
	FreeMaxScheduleDays int                   `json:"free_max_schedule_days"`
	Entitlements        []EntitlementResponse `json:"entitlements"`
}
