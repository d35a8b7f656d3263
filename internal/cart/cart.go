// Package cart implements the cart operations applied to a session cart.
// Every operation mutates the cart in place and returns freshly derived totals;
// the caller persists the cart back into its session. A nil cart is treated as
// empty and left untouched.
package cart

import (
	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/pricing"
	"github.com/shopspring/decimal"
)

// AddItem increments the line matching (itemID, name) or appends a new line
// with quantity 1.
func AddItem(c *domain.Cart, itemID int64, name string, unitPrice decimal.Decimal, imageRef string) pricing.Totals {
	if c == nil {
		return pricing.Compute(nil)
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID && c.Lines[i].Name == name {
			c.Lines[i].Quantity++
			return pricing.Compute(c)
		}
	}
	c.Lines = append(c.Lines, domain.CartLine{
		ItemID:    itemID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
		ImageRef:  imageRef,
	})
	return pricing.Compute(c)
}

// UpdateQuantity sets the quantity of the first line with itemID. A quantity
// of zero or less removes the line. Unknown ids are ignored.
func UpdateQuantity(c *domain.Cart, itemID int64, quantity int) pricing.Totals {
	i := indexOf(c, itemID)
	if i < 0 {
		return pricing.Compute(c)
	}
	if quantity <= 0 {
		removeAt(c, i)
	} else {
		c.Lines[i].Quantity = quantity
	}
	return pricing.Compute(c)
}

// RemoveItem drops the first line with itemID, if any.
func RemoveItem(c *domain.Cart, itemID int64) pricing.Totals {
	if i := indexOf(c, itemID); i >= 0 {
		removeAt(c, i)
	}
	return pricing.Compute(c)
}

func Clear(c *domain.Cart) pricing.Totals {
	if c == nil {
		return pricing.Compute(nil)
	}
	c.Lines = nil
	return pricing.Compute(c)
}

func indexOf(c *domain.Cart, itemID int64) int {
	if c == nil {
		return -1
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func removeAt(c *domain.Cart, i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}
