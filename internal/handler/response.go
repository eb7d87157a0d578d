package handler

// RESPONSE HELPERS:
// Every API response — success or failure — carries a "success" flag so the
// client can branch on one field without inspecting status codes:
//
//	{"success": true,  "note": {...}}
//	{"success": false, "error": "not_found", "message": "note not found with id abc"}
//
// writeError is the single place where domain errors (apperror sentinels
// from the service layer) are translated into HTTP status codes. Handlers
// and services stay protocol-agnostic; only this file knows that
// ErrNotFound means 404.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/notebox/internal/apperror"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"` // always false
	Error   string `json:"error"`   // machine-readable type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader, and WriteHeader before the body —
// once bytes hit the wire the headers are frozen.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends the envelope.
//
// errors.As extracts the *AppError (for its message) anywhere in the chain;
// errors.Is picks the sentinel that decides the status code. Anything that
// isn't an AppError is an unexpected internal failure and deliberately gets
// a generic message — raw error strings can leak SQL or file paths.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Success: false,
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
