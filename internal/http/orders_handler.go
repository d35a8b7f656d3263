package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/kitchen/internal/cart"
	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/reporting"
)

const maxNotesLen = 500

// OrderService is the order lifecycle as seen by the handlers.
type OrderService interface {
	CreateOrder(ctx context.Context, c *domain.Cart, actor domain.Actor, notes string) (*domain.Order, error)
	AdvanceStatus(ctx context.Context, orderID int64, next domain.OrderStatus, actor domain.Actor) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int64, actor domain.Actor) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor, filterType string, specificDate time.Time) ([]*domain.Order, error)
	Dashboard(ctx context.Context, actor domain.Actor) (reporting.DashboardSummary, error)
	Now() time.Time
}

type OrdersHandler struct {
	orders  OrderService
	store   *cart.Store
	timeout time.Duration
}

func NewOrdersHandler(orders OrderService, store *cart.Store, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		store:   store,
		timeout: timeout,
	}
}

type PlaceOrderRequestDTO struct {
	Notes string `json:"notes"`
}

type PlaceOrderResponse struct {
	Success             bool      `json:"success"`
	Message             string    `json:"message"`
	OrderID             int64     `json:"orderId"`
	EstimatedPickupTime time.Time `json:"estimatedPickupTime"`
	PreparationTime     int       `json:"preparationTime"`
	// CartCleared is false when the order was stored but the session still
	// holds the old cart; clients should clear their view before retrying.
	CartCleared bool `json:"cartCleared"`
}

type OrderItemDTO struct {
	ItemName  string `json:"itemName"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	ImageRef  string `json:"imageRef,omitempty"`
}

type OrderDTO struct {
	ID                  int64          `json:"id"`
	PlacedAt            time.Time      `json:"placedAt"`
	Status              string         `json:"status"`
	StatusLabel         string         `json:"statusLabel"`
	Subtotal            string         `json:"subtotal"`
	Tax                 string         `json:"tax"`
	Total               string         `json:"total"`
	PreparationTime     int            `json:"preparationTime"`
	EstimatedPickupTime time.Time      `json:"estimatedPickupTime"`
	ActualPickupTime    *time.Time     `json:"actualPickupTime,omitempty"`
	TimeUntilPickup     string         `json:"timeUntilPickup"`
	Notes               string         `json:"notes,omitempty"`
	CustomerName        string         `json:"customerName"`
	Items               []OrderItemDTO `json:"items"`
}

func toOrderDTO(o *domain.Order, now time.Time) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, OrderItemDTO{
			ItemName:  l.ItemName,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			ImageRef:  l.ImageRef,
		})
	}
	return OrderDTO{
		ID:                  o.ID,
		PlacedAt:            o.PlacedAt,
		Status:              o.Status.String(),
		StatusLabel:         o.Status.Label(),
		Subtotal:            o.Subtotal.StringFixed(2),
		Tax:                 o.Tax.StringFixed(2),
		Total:               o.Total.StringFixed(2),
		PreparationTime:     o.PreparationTimeMinutes,
		EstimatedPickupTime: o.EstimatedPickupAt,
		ActualPickupTime:    o.ActualPickupAt,
		TimeUntilPickup:     o.TimeUntilPickup(now),
		Notes:               o.Notes,
		CustomerName:        o.CustomerName(),
		Items:               items,
	}
}

// PlaceOrder checks out the session cart. On failure the cart is left as it was.
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Notes) > maxNotesLen {
		respondError(w, http.StatusBadRequest, "invalid_notes", "notes must be at most 500 characters")
		return
	}

	bag := getBag(ctx)
	if bag == nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "session unavailable")
		return
	}
	c, err := h.store.Load(ctx, bag)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "session_unavailable", "could not load cart")
		return
	}

	order, err := h.orders.CreateOrder(ctx, c, getActor(ctx), req.Notes)
	if err != nil {
		handleServiceError(w, r, err, "could not place order")
		return
	}

	cleared := true
	if err := h.store.Save(ctx, bag, c); err != nil {
		cleared = false
		slog.WarnContext(ctx, "order placed but cart was not cleared", "order_id", order.ID, "error", err)
	}

	respondJSON(w, http.StatusCreated, PlaceOrderResponse{
		Success:             true,
		Message:             "Order placed successfully!",
		OrderID:             order.ID,
		EstimatedPickupTime: order.EstimatedPickupAt,
		PreparationTime:     order.PreparationTimeMinutes,
		CartCleared:         cleared,
	})
}

// ListOrders accepts ?filter=today|last10days|specific and ?date=YYYY-MM-DD.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filter := r.URL.Query().Get("filter")
	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	orders, err := h.orders.ListOrders(ctx, getActor(ctx), filter, date)
	if err != nil {
		handleServiceError(w, r, err, "could not load orders")
		return
	}

	now := h.orders.Now()
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o, now))
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := parseIDParam(w, r, "order_id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID, getActor(ctx))
	if err != nil {
		handleServiceError(w, r, err, "could not load order")
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order, h.orders.Now()))
}
