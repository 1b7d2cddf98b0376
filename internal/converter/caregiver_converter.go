package converter

import (
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
)

// CaregiverToResponse includes the baby when it is loaded
func CaregiverToResponse(caregiver *entity.Caregiver) *dto.CaregiverResponse {
	if caregiver == nil {
		return nil
	}

	return &dto.CaregiverResponse{
		ID:        caregiver.ID,
		Email:     caregiver.Email,
		FullName:  caregiver.FullName,
		Baby:      BabyToResponse(caregiver.Baby),
		CreatedAt: caregiver.CreatedAt,
		UpdatedAt: caregiver.UpdatedAt,
	}
}

func BabyToResponse(baby *entity.Baby) *dto.BabyResponse {
	if baby == nil {
		return nil
	}

	response := &dto.BabyResponse{
		ID:        baby.ID,
		Name:      baby.Name,
		UpdatedAt: baby.UpdatedAt,
	}
	if baby.Gender != nil {
		gender := string(*baby.Gender)
		response.Gender = &gender
	}
	return response
}
