package converter

import (
	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/domain/entity"
)

func OffersToResponses(offers []entity.Offer) []dto.OfferResponse {
	responses := make([]dto.OfferResponse, len(offers))
	for i, offer := range offers {
		responses[i] = dto.OfferResponse{
			ID:          offer.ID,
			Identifier:  offer.Identifier,
			Name:        offer.Name,
			Description: offer.Description,
			Price:       offer.Price,
			Currency:    offer.Currency,
			PeriodDays:  offer.PeriodDays,
		}
	}
	return responses
}

func EntitlementToResponse(entitlement *entity.Entitlement) dto.EntitlementResponse {
	response := dto.EntitlementResponse{
		ID:            entitlement.ID,
		OfferID:       entitlement.OfferID,
		TransactionID: entitlement.TransactionID,
		ActiveUntil:   entitlement.ActiveUntil,
	}
	if entitlement.Offer != nil {
		response.OfferName = entitlement.Offer.Name
	}
	return response
}

func EntitlementsToResponses(entitlements []entity.Entitlement) []dto.EntitlementResponse {
	responses := make([]dto.EntitlementResponse, len(entitlements))
	for i := range entitlements {
		responses[i] = EntitlementToResponse(&entitlements[i])
	}
	return responses
}
