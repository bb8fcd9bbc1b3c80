// Package handlers exposes the engine's HTTP API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/logging"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError maps a service-layer error to an HTTP status, code and
// sanitized message.
func ServiceError(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrObjectNotFound):
		status, code = http.StatusNotFound, "object_not_found"
	case errors.Is(err, apperrors.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrCredentialCorrupt),
		errors.Is(err, apperrors.ErrCredentialsKeyMismatch):
		status, code = http.StatusConflict, "credential_unusable"
	case errors.Is(err, apperrors.ErrConnectionFailed):
		status, code = http.StatusBadGateway, "connection_failed"
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		status, code = http.StatusTooManyRequests, "quota_exceeded"
	case errors.Is(err, apperrors.ErrUpstream):
		status, code = http.StatusBadGateway, "upstream_error"
	}

	return ErrorResponse(w, status, code, logging.SanitizeError(err))
}
