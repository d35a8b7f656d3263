package reporting

import (
	"testing"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(total string, customer *domain.Customer, status domain.OrderStatus, lines ...domain.OrderLine) *domain.Order {
	return &domain.Order{
		Total:    decimal.RequireFromString(total),
		Customer: customer,
		Status:   status,
		Lines:    lines,
	}
}

func line(name string, qty int) domain.OrderLine {
	return domain.OrderLine{ItemName: name, UnitPrice: decimal.NewFromInt(1), Quantity: qty}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.True(t, s.TotalRevenue.IsZero())
	assert.True(t, s.AverageOrderValue.IsZero())
	assert.Equal(t, 0, s.TotalOrders)
	assert.Equal(t, NoSalesYet, s.MostBoughtItem)
	assert.Equal(t, 0, s.MostBoughtCount)
	assert.Empty(t, s.Top5Products)
	assert.NotNil(t, s.Top5Products)
	assert.Equal(t, NoTopCustomer, s.TopCustomer)
	assert.Equal(t, 0, s.TotalCustomers)
}

func TestSummarize(t *testing.T) {
	ana := &domain.Customer{ID: 1, Email: "ana@example.com", FirstName: "Ana", LastName: "Silva"}
	ben := &domain.Customer{ID: 2, Email: "ben@example.com"}

	orders := []*domain.Order{
		order("10.00", ana, domain.OrderStatusCompleted, line("Burger", 2), line("Chips", 1)),
		order("20.00", ben, domain.OrderStatusPending, line("Chips", 3)),
		order("5.00", ana, domain.OrderStatusCancelled, line("Soda", 1)),
		order("7.50", nil, domain.OrderStatusReadyForPickup, line("Burger", 1)),
	}

	s := Summarize(orders)

	assert.True(t, decimal.RequireFromString("42.50").Equal(s.TotalRevenue), "cancelled orders count towards revenue")
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, "10.63", s.AverageOrderValue.StringFixed(2))

	assert.Equal(t, "Chips", s.MostBoughtItem)
	assert.Equal(t, 4, s.MostBoughtCount)
	require.Len(t, s.Top5Products, 3)
	assert.Equal(t, ProductStat{Name: "Burger", Quantity: 3}, s.Top5Products[1])
	assert.Equal(t, ProductStat{Name: "Soda", Quantity: 1}, s.Top5Products[2])

	assert.Equal(t, 3, s.TotalCustomers)
	assert.Equal(t, "ben@example.com", s.TopCustomer)
	assert.True(t, decimal.RequireFromString("20.00").Equal(s.TopCustomerSpend))
}

func TestProductStats_TopFiveAndStableTies(t *testing.T) {
	var lines []domain.OrderLine
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		lines = append(lines, line(name, 1))
	}
	lines = append(lines, line("F", 1))

	s := Summarize([]*domain.Order{order("1.00", nil, domain.OrderStatusPending, lines...)})

	require.Len(t, s.Top5Products, 5)
	names := make([]string, 0, 5)
	for _, p := range s.Top5Products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"F", "A", "B", "C", "D"}, names)
}

func TestCustomerStats_UnknownGroup(t *testing.T) {
	stats := CustomerStats([]*domain.Order{
		order("3.00", nil, domain.OrderStatusPending),
		order("4.00", nil, domain.OrderStatusPending),
		order("5.00", &domain.Customer{FirstName: "Zoe"}, domain.OrderStatusPending),
	})

	require.Len(t, stats, 2)
	assert.Equal(t, "Unknown", stats[0].Name)
	assert.Equal(t, "7", stats[0].Spend.String())
	assert.Equal(t, "Zoe", stats[1].Name)
}
