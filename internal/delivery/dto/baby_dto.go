package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertBabyRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=255"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female"`
}

type BabyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name"`
	Gender    *string   `json:"gender"`
	UpdatedAt time.Time `json:"updated_at"`
}
