package cart

import (
	"testing"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddItem_SameLineTwiceMerges(t *testing.T) {
	c := &domain.Cart{}

	AddItem(c, 1, "Burger", price("10.00"), "burger.png")
	totals := AddItem(c, 1, "Burger", price("10.00"), "burger.png")

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 2, totals.TotalItems)
	assert.True(t, totals.Subtotal.Equal(price("20.00")))
}

func TestAddItem_SameIDDifferentNameIsNewLine(t *testing.T) {
	c := &domain.Cart{}

	AddItem(c, 1, "Burger", price("10.00"), "")
	AddItem(c, 1, "Burger Combo", price("14.00"), "")

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, 1, c.Lines[1].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	c := &domain.Cart{}
	AddItem(c, 1, "Burger", price("10.00"), "")
	AddItem(c, 2, "Chips", price("5.50"), "")

	totals := UpdateQuantity(c, 1, 3)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, 4, totals.TotalItems)
	assert.True(t, totals.Subtotal.Equal(price("35.50")))
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	c := &domain.Cart{}
	AddItem(c, 1, "Burger", price("10.00"), "")
	AddItem(c, 2, "Chips", price("5.50"), "")

	totals := UpdateQuantity(c, 1, 0)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(2), c.Lines[0].ItemID)
	assert.Equal(t, 1, totals.TotalItems)
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	c := &domain.Cart{}
	before := AddItem(c, 1, "Burger", price("10.00"), "")

	after := UpdateQuantity(c, 99, 5)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, before.TotalItems, after.TotalItems)
	assert.True(t, before.Total.Equal(after.Total))
}

func TestRemoveItem(t *testing.T) {
	c := &domain.Cart{}
	AddItem(c, 1, "Burger", price("10.00"), "")
	AddItem(c, 2, "Chips", price("5.50"), "")

	RemoveItem(c, 2)
	require.Len(t, c.Lines, 1)

	totals := RemoveItem(c, 42)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, totals.TotalItems)
}

func TestClear(t *testing.T) {
	c := &domain.Cart{}
	AddItem(c, 1, "Burger", price("10.00"), "")

	totals := Clear(c)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, totals.TotalItems)
	assert.True(t, totals.Total.IsZero())
}

func TestOperations_NilCartIsEmpty(t *testing.T) {
	var c *domain.Cart

	assert.NotPanics(t, func() {
		totals := AddItem(c, 1, "Burger", price("10.00"), "")
		assert.Equal(t, 0, totals.TotalItems)
		assert.True(t, totals.Total.IsZero())

		totals = UpdateQuantity(c, 1, 3)
		assert.Equal(t, 0, totals.TotalItems)

		totals = RemoveItem(c, 1)
		assert.True(t, totals.Subtotal.IsZero())

		totals = Clear(c)
		assert.True(t, totals.Tax.IsZero())
	})
}
