// Package httputil provides HTTP response helpers and router middleware.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// dataEnvelope is the wire shape of every successful JSON response.
type dataEnvelope struct {
	Data interface{} `json:"data"`
}

// errorEnvelope is the wire shape of every failed JSON response.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// fieldError describes one failed validation constraint.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// JSON writes a raw JSON response without envelope.
// Use Success for {"data": ...} wrapped responses.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, payload)
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Success writes a JSON response with {"data": ...} envelope.
func Success(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, dataEnvelope{Data: data})
}

// Error writes a JSON response with {"error": {"message": ...}} envelope.
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Message: message}})
}

// ValidationError writes a 400 with per-field details when err is a
// validator.ValidationErrors, or err.Error() as the details otherwise.
func ValidationError(w http.ResponseWriter, err error) {
	var details interface{}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]fieldError, 0, len(validationErrors))
		for _, e := range validationErrors {
			fields = append(fields, fieldError{Field: e.Field(), Message: e.Tag()})
		}
		details = fields
	} else {
		details = err.Error()
	}

	writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{
		Message: "validation error",
		Details: details,
	}})
}
