package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fjod/kitchen/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps lifecycle errors to responses. Store failures are
// logged and reported with fallback only.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrLoginRequired):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "please log in to continue")
	case errors.Is(err, service.ErrForbiddenActor):
		respondError(w, http.StatusForbidden, "forbidden", forbiddenMessage(err))
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusForbidden, "forbidden", service.ErrUnauthorized.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, service.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "request_id", getRequestID(r.Context()), "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func forbiddenMessage(err error) string {
	if errors.Is(err, service.ErrForbiddenActor) && err != service.ErrForbiddenActor {
		return err.Error()
	}
	return "you do not have access to this resource"
}
