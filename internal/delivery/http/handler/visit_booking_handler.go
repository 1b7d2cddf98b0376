package handler

import (
	"errors"
	"net/http"

	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/response"
)

// VisitBookingHandler serves the caregiver's view of who booked which slot
type VisitBookingHandler struct {
	bookingUsecase  usecase.VisitBookingUsecase
	auditLogUsecase usecase.AuditLogUsecase
}

func NewVisitBookingHandler(bookingUsecase usecase.VisitBookingUsecase, auditLogUsecase usecase.AuditLogUsecase) *VisitBookingHandler {
	return &VisitBookingHandler{
		bookingUsecase:  bookingUsecase,
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *VisitBookingHandler) GetScheduleBookings(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "id", "schedule")
	if !ok {
		return
	}

	bookings, err := h.bookingUsecase.ListScheduleBookings(r.Context(), caregiverID, scheduleID)
	if err != nil {
		if errors.Is(err, usecase.ErrScheduleNotFound) {
			response.NotFound(w, "Schedule not found")
			return
		}
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// GetScheduleActivity includes replaced and cancelled bookings
func (h *VisitBookingHandler) GetScheduleActivity(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := currentCaregiver(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "id", "schedule")
	if !ok {
		return
	}

	logs, err := h.auditLogUsecase.GetScheduleActivity(r.Context(), caregiverID, scheduleID, queryLimit(r))
	if err != nil {
		if errors.Is(err, usecase.ErrScheduleNotFound) {
			response.NotFound(w, "Schedule not found")
			return
		}
		response.InternalServerError(w, "Failed to get schedule activity")
		return
	}

	response.Success(w, http.StatusOK, "Schedule activity retrieved successfully", logs)
}
