package domain

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending: {
		OrderStatusPreparing: true,
		OrderStatusCancelled: true,
	},
	OrderStatusPreparing: {
		OrderStatusReadyForPickup: true,
		OrderStatusCancelled:      true,
	},
	OrderStatusReadyForPickup: {
		OrderStatusCompleted: true,
	},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransitionTo reports whether an order in status from may move to status to.
func CanTransitionTo(from, to OrderStatus) bool {
	next := allowedTransitions[from]
	return next != nil && next[to]
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Label is the customer facing name of the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusPreparing:
		return "Being Prepared"
	case OrderStatusReadyForPickup:
		return "Ready for Pickup"
	case OrderStatusCompleted:
		return "Completed"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus accepts the canonical form ("READY_FOR_PICKUP") as well as
// the camel case names used by older clients ("ReadyForPickup"), case-insensitively.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "_", ""))
	switch key {
	case "PENDING":
		return OrderStatusPending, nil
	case "PREPARING":
		return OrderStatusPreparing, nil
	case "READYFORPICKUP":
		return OrderStatusReadyForPickup, nil
	case "COMPLETED":
		return OrderStatusCompleted, nil
	case "CANCELLED":
		return OrderStatusCancelled, nil
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}
