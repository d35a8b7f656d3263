package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/kitchen/internal/cart"
	"github.com/fjod/kitchen/internal/catalog"
	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/pricing"
	"github.com/fjod/kitchen/internal/session"
	"github.com/go-chi/chi/v5"
)

const maxLineQuantity = 99

// ProductReader is the part of the menu the cart needs.
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type CartHandler struct {
	store   *cart.Store
	menu    ProductReader
	timeout time.Duration
}

func NewCartHandler(store *cart.Store, menu ProductReader, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:   store,
		menu:    menu,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ItemID int64 `json:"item_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartItemDTO struct {
	ItemID    int64  `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
	ImageRef  string `json:"imageRef,omitempty"`
}

type CartResponse struct {
	Success    bool          `json:"success"`
	TotalItems int           `json:"totalItems"`
	Subtotal   string        `json:"subtotal"`
	Tax        string        `json:"tax"`
	Total      string        `json:"total"`
	Items      []CartItemDTO `json:"items"`
}

func toCartResponse(c *domain.Cart, totals pricing.Totals) CartResponse {
	items := make([]CartItemDTO, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, CartItemDTO{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal().StringFixed(2),
			ImageRef:  l.ImageRef,
		})
	}
	return CartResponse{
		Success:    true,
		TotalItems: totals.TotalItems,
		Subtotal:   totals.Subtotal.StringFixed(2),
		Tax:        totals.Tax.StringFixed(2),
		Total:      totals.Total.StringFixed(2),
		Items:      items,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, _, ok := h.load(ctx, w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c, pricing.Compute(c)))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ItemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be positive")
		return
	}

	product, err := h.menu.GetProduct(ctx, req.ItemID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err != nil {
		handleServiceError(w, r, err, "could not load product")
		return
	}

	c, bag, ok := h.load(ctx, w)
	if !ok {
		return
	}
	totals := cart.AddItem(c, product.ID, product.Name, product.Price, product.ImageURL)
	if !h.save(ctx, w, bag, c) {
		return
	}
	respondJSON(w, http.StatusCreated, toCartResponse(c, totals))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID, ok := parseIDParam(w, r, "item_id")
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "quantity is required")
		return
	}
	if *req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	c, bag, ok := h.load(ctx, w)
	if !ok {
		return
	}
	totals := cart.UpdateQuantity(c, itemID, *req.Quantity)
	if !h.save(ctx, w, bag, c) {
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c, totals))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID, ok := parseIDParam(w, r, "item_id")
	if !ok {
		return
	}

	c, bag, ok := h.load(ctx, w)
	if !ok {
		return
	}
	totals := cart.RemoveItem(c, itemID)
	if !h.save(ctx, w, bag, c) {
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c, totals))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, bag, ok := h.load(ctx, w)
	if !ok {
		return
	}
	totals := cart.Clear(c)
	if !h.save(ctx, w, bag, c) {
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c, totals))
}

func (h *CartHandler) load(ctx context.Context, w http.ResponseWriter) (*domain.Cart, *session.Bag, bool) {
	bag := getBag(ctx)
	if bag == nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "session unavailable")
		return nil, nil, false
	}
	c, err := h.store.Load(ctx, bag)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "session_unavailable", "could not load cart")
		return nil, nil, false
	}
	return c, bag, true
}

func (h *CartHandler) save(ctx context.Context, w http.ResponseWriter, bag *session.Bag, c *domain.Cart) bool {
	if err := h.store.Save(ctx, bag, c); err != nil {
		respondError(w, http.StatusServiceUnavailable, "session_unavailable", "could not save cart")
		return false
	}
	return true
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
