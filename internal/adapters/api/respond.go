package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// respondError maps the error taxonomy to HTTP statuses in one place.
// Anything outside the taxonomy is a persistence or programming failure: it
// is logged with detail and reported as a generic 500.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrCredentialExpired),
		errors.Is(err, domain.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, domain.ErrMethodNotAllowed),
		errors.Is(err, domain.ErrEndpointNotAllowed),
		errors.Is(err, domain.ErrNotAuthorized):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
	}

	respondJSON(w, logger, status, map[string]string{"error": message})
}
