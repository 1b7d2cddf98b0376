package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-visit-scheduler/internal/delivery/dto"
	"baby-visit-scheduler/internal/service"
	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/response"

	"github.com/gorilla/mux"
)

// Public endpoints answer with flat bodies the sharing page reads directly:
// {"ok":true}, {"message":...} or {"code":"ALREADY_BOOKED","message":...}.

const alreadyBookedCode = "ALREADY_BOOKED"

type PublicBookingHandler struct {
	bookingUsecase usecase.VisitBookingUsecase
}

func NewPublicBookingHandler(bookingUsecase usecase.VisitBookingUsecase) *PublicBookingHandler {
	return &PublicBookingHandler{bookingUsecase: bookingUsecase}
}

func (h *PublicBookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req dto.PublicBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, http.StatusBadRequest, usecase.ErrIncompleteBooking.Error())
		return
	}

	if _, err := h.bookingUsecase.Book(r.Context(), &req); err != nil {
		writeBookingError(w, err, "could not save the booking, please try again")
		return
	}

	response.OK(w)
}

func (h *PublicBookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req dto.PublicCancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, http.StatusBadRequest, usecase.ErrIncompleteBooking.Error())
		return
	}

	if err := h.bookingUsecase.Cancel(r.Context(), &req); err != nil {
		writeBookingError(w, err, "could not cancel the booking, please try again")
		return
	}

	response.OK(w)
}

func (h *PublicBookingHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.bookingUsecase.GetPublicSchedule(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		if errors.Is(err, usecase.ErrScheduleNotFound) {
			response.Message(w, http.StatusNotFound, "schedule not found")
			return
		}
		response.Message(w, http.StatusInternalServerError, "could not load the schedule")
		return
	}

	response.JSON(w, http.StatusOK, schedule)
}

func writeBookingError(w http.ResponseWriter, err error, storeMessage string) {
	if errors.Is(err, usecase.ErrIncompleteBooking) || errors.Is(err, usecase.ErrInvalidSlotID) {
		response.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	switch service.OutcomeOf(err) {
	case service.OutcomeInvalidInput:
		response.Message(w, http.StatusBadRequest, err.Error())
	case service.OutcomeNotFound:
		response.Message(w, http.StatusNotFound, err.Error())
	case service.OutcomeNeedsReplaceConfirmation:
		response.CodedMessage(w, http.StatusConflict, alreadyBookedCode, service.ErrAlreadyBooked.Error())
	case service.OutcomeSlotFull:
		response.Message(w, http.StatusConflict, err.Error())
	default:
		response.Message(w, http.StatusInternalServerError, storeMessage)
	}
}
