package http

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/kitchen/internal/cart"
	"github.com/fjod/kitchen/internal/catalog"
	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/metrics"
	"github.com/fjod/kitchen/internal/repository"
	"github.com/fjod/kitchen/internal/service"
	"github.com/fjod/kitchen/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memOrders is an in-memory repository.OrderRepository and customer store.
type memOrders struct {
	mu        sync.Mutex
	orders    map[int64]*domain.Order
	customers map[string]*domain.Customer
	nextID    int64
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[int64]*domain.Order{}, customers: map[string]*domain.Customer{}}
}

func (m *memOrders) UpsertCustomer(_ context.Context, c *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.customers[c.Email]; ok {
		c.ID = existing.ID
	} else {
		c.ID = int64(len(m.customers) + 1)
	}
	cp := *c
	m.customers[c.Email] = &cp
	return nil
}

func (m *memOrders) customerByID(id int64) *domain.Customer {
	for _, c := range m.customers {
		if c.ID == id {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (m *memOrders) CreateOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o.ID = m.nextID
	if o.CustomerID != nil {
		o.Customer = m.customerByID(*o.CustomerID)
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrders) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) ListOrders(_ context.Context, f repository.OrderFilter) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Order, 0)
	for _, o := range m.orders {
		if f.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *f.CustomerID) {
			continue
		}
		if f.From != nil && o.PlacedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !o.PlacedAt.Before(*f.To) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memOrders) UpdateOrderStatus(_ context.Context, id int64, mutate repository.StatusMutation) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	m.orders[id] = &cp
	out := cp
	return &out, nil
}

// memCatalog is an in-memory Catalog.
type memCatalog struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newMemCatalog() *memCatalog {
	c := &memCatalog{products: map[int64]*domain.Product{}}
	for _, p := range []domain.Product{
		{Name: "Classic Burger", Price: decimal.RequireFromString("10.00"), Category: "Burgers", ImageURL: "/images/burger.jpg"},
		{Name: "Chips", Price: decimal.RequireFromString("5.50"), Category: "Sides"},
		{Name: "Lemonade", Price: decimal.RequireFromString("3.00"), Category: "Drinks"},
		{Name: "Brownie", Price: decimal.RequireFromString("6.25"), Category: "Desserts"},
	} {
		p := p
		_ = c.CreateProduct(context.Background(), &p)
	}
	return c
}

func (c *memCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *memCatalog) ListProducts(_ context.Context, category string) ([]*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domain.Product, 0)
	for id := int64(1); id <= c.nextID; id++ {
		if p, ok := c.products[id]; ok && (category == "" || p.Category == category) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (c *memCatalog) CreateProduct(_ context.Context, p *domain.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	p.ID = c.nextID
	p.CreatedAt = time.Now()
	cp := *p
	c.products[p.ID] = &cp
	return nil
}

func (c *memCatalog) UpdateProduct(_ context.Context, p *domain.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[p.ID]; !ok {
		return catalog.ErrProductNotFound
	}
	cp := *p
	c.products[p.ID] = &cp
	return nil
}

func (c *memCatalog) DeleteProduct(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(c.products, id)
	return nil
}

type testServer struct {
	*httptest.Server
	orders  *memOrders
	menu    *memCatalog
	redis   *miniredis.Miniredis
	metrics *metrics.Metrics
}

// setupTestServer starts the router over in-memory stores. wrap, when given,
// decorates the order service.
func setupTestServer(t *testing.T, wrap ...func(OrderService) OrderService) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	orders := newMemOrders()
	menu := newMemCatalog()
	reg := prometheus.NewRegistry()
	m := metrics.New("api", reg)
	var svc OrderService = service.NewOrderService(orders, nil, service.WithMetrics(m))
	for _, w := range wrap {
		svc = w(svc)
	}

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Sessions:       session.NewManager(client, time.Hour),
		Carts:          cart.NewStore(nil),
		Menu:           menu,
		Orders:         svc,
		Customers:      orders,
		Metrics:        m,
		Gatherer:       reg,
		RequestTimeout: 5 * time.Second,
		SessionTTL:     time.Hour,
		DevLogin:       true,
	}))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, orders: orders, menu: menu, redis: mr, metrics: m}
}

// newClient returns a browser-like client with its own session cookie.
func (s *testServer) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

// afterCreate runs hook once an order has been stored.
type afterCreate struct {
	OrderService
	hook func()
}

func (a afterCreate) CreateOrder(ctx context.Context, c *domain.Cart, actor domain.Actor, notes string) (*domain.Order, error) {
	o, err := a.OrderService.CreateOrder(ctx, c, actor, notes)
	if err == nil {
		a.hook()
	}
	return o, err
}
