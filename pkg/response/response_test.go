package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicBodies(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Message(rec, http.StatusNotFound, "booking not found")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"booking not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	CodedMessage(rec, http.StatusConflict, "ALREADY_BOOKED", "confirm")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"code":"ALREADY_BOOKED","message":"confirm"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "created", map[string]int{"count": 2})
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"count":2}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Unauthorized(rec, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, rec.Body.String())
}
