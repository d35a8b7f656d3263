package domain

import "github.com/shopspring/decimal"

// Cart is the session-scoped list of lines a customer is about to order.
// Lines are unique by (ItemID, Name).
type Cart struct {
	Lines []CartLine
}

type CartLine struct {
	ItemID    int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageRef  string
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// LineTotal is UnitPrice x Quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
