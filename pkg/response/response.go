package response

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of the caregiver API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

func ValidationError(w http.ResponseWriter, errors interface{}) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Error:   errors,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message, nil)
}

// Public booking responses use a flat body instead of the envelope.

type okBody struct {
	OK bool `json:"ok"`
}

type messageBody struct {
	Message string `json:"message"`
}

type codedMessageBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK writes 200 {"ok":true}
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, okBody{OK: true})
}

// Message writes {"message": ...} with the given status
func Message(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, messageBody{Message: message})
}

// CodedMessage writes {"code": ..., "message": ...} with the given status
func CodedMessage(w http.ResponseWriter, statusCode int, code, message string) {
	JSON(w, statusCode, codedMessageBody{Code: code, Message: message})
}
