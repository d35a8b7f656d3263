package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/kitchen/internal/domain"
)

type AdminHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewAdminHandler(orders OrderService, timeout time.Duration) *AdminHandler {
	return &AdminHandler{orders: orders, timeout: timeout}
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := parseIDParam(w, r, "order_id")
	if !ok {
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	next, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	order, err := h.orders.AdvanceStatus(ctx, orderID, next, getActor(ctx))
	if err != nil {
		handleServiceError(w, r, err, "could not update order")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order status updated to " + order.Status.Label(),
		"order":   toOrderDTO(order, h.orders.Now()),
	})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.orders.Dashboard(ctx, getActor(ctx))
	if err != nil {
		handleServiceError(w, r, err, "could not load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
