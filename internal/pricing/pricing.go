// Package pricing derives cart amounts and kitchen preparation time.
package pricing

import (
	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	BasePreparationMinutes    = 15
	PerLinePreparationMinutes = 5
	MaxPreparationMinutes     = 45
)

// TaxRate is the fixed sales tax applied to every cart.
var TaxRate = decimal.RequireFromString("0.15")

// Totals are always derived from the cart lines, never stored.
type Totals struct {
	TotalItems int
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
}

func Subtotal(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Tax rounds to cents, half away from zero.
func Tax(lines []domain.CartLine) decimal.Decimal {
	return Subtotal(lines).Mul(TaxRate).Round(2)
}

func Total(lines []domain.CartLine) decimal.Decimal {
	return Subtotal(lines).Add(Tax(lines))
}

func TotalItems(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func Compute(c *domain.Cart) Totals {
	if c == nil {
		return Totals{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	}
	subtotal := Subtotal(c.Lines)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		TotalItems: TotalItems(c.Lines),
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
	}
}

// PreparationMinutes counts distinct lines, not quantities: 15 minutes for the
// first line, 5 more per extra line, capped at 45.
func PreparationMinutes(distinctLines int) int {
	extra := (distinctLines - 1) * PerLinePreparationMinutes
	if extra < 0 {
		extra = 0
	}
	return min(BasePreparationMinutes+extra, MaxPreparationMinutes)
}
