// Package policy decides which orders an actor may see or change.
package policy

import (
	"strings"

	"github.com/fjod/kitchen/internal/domain"
)

// CheckoutDecision explains why an actor may or may not place an order.
type CheckoutDecision int

const (
	CheckoutAllowed CheckoutDecision = iota
	CheckoutRequiresLogin
	CheckoutDeniedForAdmin
)

func CheckoutFor(actor domain.Actor) CheckoutDecision {
	switch {
	case actor.IsAdmin():
		return CheckoutDeniedForAdmin
	case actor.IsCustomer() && actor.CustomerID > 0:
		return CheckoutAllowed
	default:
		return CheckoutRequiresLogin
	}
}

func CanCheckout(actor domain.Actor) bool {
	return CheckoutFor(actor) == CheckoutAllowed
}

func CanViewOrder(order *domain.Order, actor domain.Actor) bool {
	if order == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if !actor.IsCustomer() {
		return false
	}
	if order.CustomerID != nil && *order.CustomerID == actor.CustomerID {
		return true
	}
	return order.Customer != nil && actor.Email != "" &&
		strings.EqualFold(order.Customer.Email, actor.Email)
}

func CanManageOrders(actor domain.Actor) bool {
	return actor.IsAdmin()
}

// Scope restricts order queries for an actor.
type Scope struct {
	// CustomerID is nil for unrestricted (admin) scope.
	CustomerID *int64
}

// ScopeOrders returns false for actors that have no order scope at all.
func ScopeOrders(actor domain.Actor) (Scope, bool) {
	switch {
	case actor.IsAdmin():
		return Scope{}, true
	case actor.IsCustomer() && actor.CustomerID > 0:
		id := actor.CustomerID
		return Scope{CustomerID: &id}, true
	default:
		return Scope{}, false
	}
}
