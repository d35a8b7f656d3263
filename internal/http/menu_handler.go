package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/kitchen/internal/catalog"
	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog is the menu store.
type Catalog interface {
	ProductReader
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type MenuHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewMenuHandler(c Catalog, timeout time.Duration) *MenuHandler {
	return &MenuHandler{catalog: c, timeout: timeout}
}

type ProductDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProductRequestDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
}

func toProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *MenuHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx, r.URL.Query().Get("category"))
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *MenuHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseIDParam(w, r, "product_id")
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductDTO(p))
}

func (h *MenuHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	if err := h.catalog.CreateProduct(ctx, p); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProductDTO(p))
}

func (h *MenuHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseIDParam(w, r, "product_id")
	if !ok {
		return
	}
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	p.ID = id
	if err := h.catalog.UpdateProduct(ctx, p); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductDTO(p))
}

func (h *MenuHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseIDParam(w, r, "product_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}, true
}

func handleCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid product",
			Code:    "invalid_product",
			Details: verr.Error(),
		})
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	default:
		handleServiceError(w, r, err, "could not access the menu")
	}
}
