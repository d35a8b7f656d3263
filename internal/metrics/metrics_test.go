package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.StatusChanged(domain.OrderStatusPreparing)
		m.NotificationFailed("publish")
		m.ObserveRequest("GET /", 200, time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	m := New("api", prometheus.NewRegistry())

	m.OrderCreated()
	m.OrderCreated()
	m.StatusChanged(domain.OrderStatusReadyForPickup)
	m.NotificationFailed("confirmation")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("READY_FOR_PICKUP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("confirmation")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("api", reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/orders/{order_id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET /orders/{order_id}", "418")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "kitchen_api_http_requests_total")
}
