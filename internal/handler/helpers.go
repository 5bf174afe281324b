package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"clipnest/internal/domain"
	"clipnest/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Forbidden is reported as not found so other owners' IDs stay hidden.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrUnavailable):
		slog.Warn("storage unavailable", "error", err)
		httputil.RespondError(w, http.StatusServiceUnavailable, "storage temporarily unavailable, retry later")
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// optionalParam returns a pointer to a non-empty value, or nil
func optionalParam(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
