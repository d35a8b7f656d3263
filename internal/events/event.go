// Package events carries order state changes from the lifecycle service to
// the notification side. Events are emitted after commit and attempted at
// most once.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeOrderPlaced        Type = "order.placed"
	TypeOrderStatusChanged Type = "order.status_changed"
)

type OrderEvent struct {
	EventID      string             `json:"event_id"`
	Type         Type               `json:"type"`
	OrderID      int64              `json:"order_id"`
	ToEmail      string             `json:"to_email"`
	CustomerName string             `json:"customer_name"`
	Total        decimal.Decimal    `json:"total"`
	Status       domain.OrderStatus `json:"status"`
	StatusLabel  string             `json:"status_label"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

// Publisher hands an event to whatever delivers notifications.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// Handler processes one event on the consuming side.
type Handler func(ctx context.Context, event OrderEvent) error

func OrderPlaced(order *domain.Order, at time.Time) OrderEvent {
	return newEvent(TypeOrderPlaced, order, at)
}

func StatusChanged(order *domain.Order, at time.Time) OrderEvent {
	return newEvent(TypeOrderStatusChanged, order, at)
}

func newEvent(t Type, order *domain.Order, at time.Time) OrderEvent {
	ev := OrderEvent{
		EventID:      uuid.NewString(),
		Type:         t,
		OrderID:      order.ID,
		CustomerName: order.CustomerName(),
		Total:        order.Total,
		Status:       order.Status,
		StatusLabel:  order.Status.Label(),
		OccurredAt:   at.UTC(),
	}
	if order.Customer != nil {
		ev.ToEmail = order.Customer.Email
	}
	return ev
}

// Key groups events of one order on the same partition.
func (e OrderEvent) Key() string {
	return strconv.FormatInt(e.OrderID, 10)
}

func Marshal(e OrderEvent) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return b, nil
}

func Unmarshal(b []byte) (OrderEvent, error) {
	var e OrderEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return OrderEvent{}, fmt.Errorf("failed to parse order event: %w", err)
	}
	if e.Type != TypeOrderPlaced && e.Type != TypeOrderStatusChanged {
		return OrderEvent{}, fmt.Errorf("unknown order event type %q", e.Type)
	}
	return e, nil
}

// NopPublisher drops every event. Used when notifications are switched off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }
