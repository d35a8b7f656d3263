package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/events"
	"github.com/fjod/kitchen/internal/repository"
)

// MockRepository is an in-memory repository.OrderRepository.
type MockRepository struct {
	mu        sync.Mutex
	orders    map[int64]*domain.Order
	nextID    int64
	CreateErr error
	UpdateErr error
	ListErr   error
	LastList  repository.OrderFilter
}

func NewMockRepository() *MockRepository {
	return &MockRepository{orders: map[int64]*domain.Order{}, nextID: 1}
}

func (m *MockRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	order.ID = m.nextID
	m.nextID++
	if order.CustomerID != nil {
		order.Customer = &domain.Customer{ID: *order.CustomerID, Email: "customer@example.com", FirstName: "Test"}
	}
	stored := *order
	m.orders[order.ID] = &stored
	return nil
}

func (m *MockRepository) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockRepository) ListOrders(_ context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastList = filter
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Order
	for _, o := range m.orders {
		if filter.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *filter.CustomerID) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockRepository) UpdateOrderStatus(_ context.Context, id int64, mutate repository.StatusMutation) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
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

func (m *MockRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	Events []events.OrderEvent
	Err    error
}

func (p *MockPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, ev)
	return nil
}

var errStore = errors.New("connection reset")
