package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/kitchen/internal/cart"
	"github.com/fjod/kitchen/internal/metrics"
	"github.com/fjod/kitchen/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterConfig struct {
	Sessions  *session.Manager
	Carts     *cart.Store
	Menu      Catalog
	Orders    OrderService
	Customers CustomerStore
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Log       *slog.Logger

	RequestTimeout time.Duration
	SessionTTL     time.Duration
	SecureCookies  bool
	// DevLogin mounts the password-less sign-in endpoints.
	DevLogin bool
	// Ready reports whether the backing stores answer.
	Ready func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	cartHandler := NewCartHandler(cfg.Carts, cfg.Menu, cfg.RequestTimeout)
	ordersHandler := NewOrdersHandler(cfg.Orders, cfg.Carts, cfg.RequestTimeout)
	adminHandler := NewAdminHandler(cfg.Orders, cfg.RequestTimeout)
	menuHandler := NewMenuHandler(cfg.Menu, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(cfg.Sessions, cfg.SessionTTL, cfg.SecureCookies))

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menuHandler.ListProducts)
			r.Get("/{product_id}", menuHandler.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordersHandler.PlaceOrder)
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Put("/orders/{order_id}/status", adminHandler.UpdateStatus)
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Post("/products", menuHandler.CreateProduct)
			r.Put("/products/{product_id}", menuHandler.UpdateProduct)
			r.Delete("/products/{product_id}", menuHandler.DeleteProduct)
		})

		if cfg.DevLogin && cfg.Customers != nil {
			sessionHandler := NewSessionHandler(cfg.Customers, cfg.RequestTimeout)
			r.Post("/session", sessionHandler.SignIn)
			r.Delete("/session", sessionHandler.SignOut)
		}
	})

	return r
}
