package handler

import (
	"net/http"
	"strconv"

	"baby-visit-scheduler/internal/delivery/http/middleware"
	"baby-visit-scheduler/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// currentCaregiver writes 401 and returns false when the request is unauthenticated
func currentCaregiver(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	caregiverID, ok := middleware.GetCaregiverIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return uuid.Nil, false
	}
	return caregiverID, true
}

// pathID parses a uuid route variable, writing 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
