package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderLine struct {
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageRef  string
}

type Order struct {
	ID                     int64
	PlacedAt               time.Time
	Status                 OrderStatus
	Subtotal               decimal.Decimal
	Tax                    decimal.Decimal
	Total                  decimal.Decimal
	PreparationTimeMinutes int
	EstimatedPickupAt      time.Time
	ActualPickupAt         *time.Time
	Notes                  string
	CustomerID             *int64
	Customer               *Customer // eager loaded, nil for anonymous orders
	Lines                  []OrderLine
}

// TimeUntilPickup renders the remaining wait relative to now.
func (o *Order) TimeUntilPickup(now time.Time) string {
	if o.Status.IsTerminal() {
		return "N/A"
	}
	remaining := o.EstimatedPickupAt.Sub(now)
	if remaining < 0 {
		return "Ready Now!"
	}
	return fmt.Sprintf("%d minutes", int(remaining.Minutes()))
}

// CustomerName is the display name used by reports and notifications.
func (o *Order) CustomerName() string {
	if o.Customer == nil {
		return "Unknown"
	}
	return o.Customer.DisplayName()
}
