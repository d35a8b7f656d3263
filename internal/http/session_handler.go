package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/session"
)

// CustomerStore registers customers on sign-in.
type CustomerStore interface {
	UpsertCustomer(ctx context.Context, customer *domain.Customer) error
}

// SessionHandler is a password-less sign-in for local development. Real
// deployments put an identity provider in front that writes the same
// session keys.
type SessionHandler struct {
	customers CustomerStore
	timeout   time.Duration
}

func NewSessionHandler(customers CustomerStore, timeout time.Duration) *SessionHandler {
	return &SessionHandler{customers: customers, timeout: timeout}
}

type SignInRequestDTO struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
}

func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}

	bag := getBag(ctx)
	if bag == nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "session unavailable")
		return
	}

	actor := domain.AdminActor(addr.Address)
	if !req.Admin {
		customer := &domain.Customer{
			Email:     addr.Address,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
		}
		if err := h.customers.UpsertCustomer(ctx, customer); err != nil {
			handleServiceError(w, r, err, "could not sign in")
			return
		}
		actor = domain.CustomerActor(customer.ID, customer.Email)
	}

	if err := session.SignIn(ctx, bag, actor); err != nil {
		respondError(w, http.StatusServiceUnavailable, "session_unavailable", "could not sign in")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"role":    actor.Kind.String(),
		"email":   actor.Email,
	})
}

// SignOut drops the whole session, cart included.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if bag := getBag(ctx); bag != nil {
		if err := bag.Clear(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "session_unavailable", "could not sign out")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
