package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/kitchen/internal/domain"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderFilter narrows ListOrders. Zero values mean no restriction;
// placed_at is matched against the half-open range [From, To).
type OrderFilter struct {
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

// StatusMutation is applied to an order while its row is locked. Returning an
// error aborts the update.
type StatusMutation func(order *domain.Order) error

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, mutate StatusMutation) (*domain.Order, error)
}

type CustomerRepository interface {
	UpsertCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
}
