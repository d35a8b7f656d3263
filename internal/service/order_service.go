// Package service is the order lifecycle: placing orders from a cart and
// moving them through the status state machine. It is the only writer of
// orders.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fjod/kitchen/internal/cart"
	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/events"
	"github.com/fjod/kitchen/internal/metrics"
	"github.com/fjod/kitchen/internal/policy"
	"github.com/fjod/kitchen/internal/pricing"
	"github.com/fjod/kitchen/internal/reporting"
	"github.com/fjod/kitchen/internal/repository"
)

const defaultNotifyTimeout = 3 * time.Second

type OrderService struct {
	orders        repository.OrderRepository
	publisher     events.Publisher
	metrics       *metrics.Metrics
	log           *slog.Logger
	now           func() time.Time
	notifyTimeout time.Duration
}

type Option func(*OrderService)

func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *OrderService) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *OrderService) { s.metrics = m }
}

// WithNotifyTimeout bounds a single publish attempt.
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *OrderService) { s.notifyTimeout = d }
}

func NewOrderService(orders repository.OrderRepository, publisher events.Publisher, opts ...Option) *OrderService {
	s := &OrderService{
		orders:        orders,
		publisher:     publisher,
		log:           slog.Default(),
		now:           time.Now,
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	return s
}

// CreateOrder snapshots the cart into a pending order, clears the cart and
// emits a confirmation event. The caller saves the emptied cart back into the
// session. Nothing is written when the actor or the cart is rejected.
func (s *OrderService) CreateOrder(ctx context.Context, c *domain.Cart, actor domain.Actor, notes string) (*domain.Order, error) {
	switch policy.CheckoutFor(actor) {
	case policy.CheckoutDeniedForAdmin:
		return nil, fmt.Errorf("%w: staff accounts cannot place orders", ErrForbiddenActor)
	case policy.CheckoutRequiresLogin:
		return nil, ErrLoginRequired
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := pricing.Compute(c)
	placedAt := s.now()
	prep := pricing.PreparationMinutes(len(c.Lines))
	customerID := actor.CustomerID

	order := &domain.Order{
		PlacedAt:               placedAt,
		Status:                 domain.OrderStatusPending,
		Subtotal:               totals.Subtotal,
		Tax:                    totals.Tax,
		Total:                  totals.Total,
		PreparationTimeMinutes: prep,
		EstimatedPickupAt:      placedAt.Add(time.Duration(prep) * time.Minute),
		Notes:                  notes,
		CustomerID:             &customerID,
		Lines:                  make([]domain.OrderLine, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ItemName:  l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			ImageRef:  l.ImageRef,
		})
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	cart.Clear(c)
	s.metrics.OrderCreated()
	s.log.InfoContext(ctx, "order placed",
		"order_id", order.ID, "customer_id", customerID, "total", order.Total.StringFixed(2),
		"preparation_minutes", prep)

	s.notify(ctx, events.OrderPlaced(order, placedAt))
	return order, nil
}

// AdvanceStatus moves an order to next. The transition is validated against
// the locked row, so of two concurrent updates the logically later one fails
// with ErrIllegalTransition instead of overwriting.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID int64, next domain.OrderStatus, actor domain.Actor) (*domain.Order, error) {
	if !policy.CanManageOrders(actor) {
		return nil, ErrUnauthorized
	}
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, next)
	}

	now := s.now()
	var previous domain.OrderStatus
	order, err := s.orders.UpdateOrderStatus(ctx, orderID, func(o *domain.Order) error {
		if !domain.CanTransitionTo(o.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, next)
		}
		previous = o.Status
		o.Status = next
		if next == domain.OrderStatusCompleted {
			o.ActualPickupAt = &now
		}
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return nil, fmt.Errorf("%w: %d", ErrNotFound, orderID)
	case errors.Is(err, ErrIllegalTransition):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.metrics.StatusChanged(next)
	s.log.InfoContext(ctx, "order status changed",
		"order_id", order.ID, "from", previous, "to", next, "by", actor.Email)

	if next == domain.OrderStatusPreparing || next == domain.OrderStatusReadyForPickup {
		s.notify(ctx, events.StatusChanged(order, now))
	}
	return order, nil
}

// GetOrder returns the order when the actor may see it. Orders the actor may
// not see are reported as forbidden, never leaked.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64, actor domain.Actor) (*domain.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrLoginRequired
	}
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !policy.CanViewOrder(order, actor) {
		return nil, ErrForbiddenActor
	}
	return order, nil
}

// ListOrders returns the actor's visible orders, newest first. Customers
// always see their own history; the date filter narrows the admin view.
func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor, filterType string, specificDate time.Time) ([]*domain.Order, error) {
	scope, ok := policy.ScopeOrders(actor)
	if !ok {
		return nil, ErrLoginRequired
	}

	now := s.now()
	filter := repository.OrderFilter{CustomerID: scope.CustomerID}
	if actor.IsAdmin() {
		if r, ok := reporting.RangeFor(filterType, specificDate, now); ok {
			filter.From, filter.To = &r.From, &r.To
		}
	}

	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if actor.IsAdmin() {
		// stores that ignore the date bounds still yield the half-open window
		orders = reporting.FilterOrders(orders, filterType, specificDate, now)
	}
	return orders, nil
}

// Dashboard summarizes the whole order history for staff.
func (s *OrderService) Dashboard(ctx context.Context, actor domain.Actor) (reporting.DashboardSummary, error) {
	if !policy.CanManageOrders(actor) {
		return reporting.DashboardSummary{}, ErrUnauthorized
	}
	orders, err := s.orders.ListOrders(ctx, repository.OrderFilter{})
	if err != nil {
		return reporting.DashboardSummary{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return reporting.Summarize(orders), nil
}

// Now is the service clock, shared with the presentation of pickup times.
func (s *OrderService) Now() time.Time {
	return s.now()
}

// notify publishes once with a bounded timeout. Failures are logged and
// counted, never returned.
func (s *OrderService) notify(ctx context.Context, ev events.OrderEvent) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.metrics.NotificationFailed(string(ev.Type))
		s.log.WarnContext(ctx, "failed to publish order event",
			"event_id", ev.EventID, "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}
