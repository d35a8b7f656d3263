// Package reporting computes the admin dashboard rollups and the date
// filters applied to order listings.
package reporting

import (
	"slices"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	NoSalesYet    = "No sales yet"
	NoTopCustomer = "N/A"
	topProducts   = 5
)

type ProductStat struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type CustomerStat struct {
	Name  string          `json:"name"`
	Spend decimal.Decimal `json:"spend"`
}

type DashboardSummary struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	MostBoughtItem    string          `json:"mostBoughtItem"`
	MostBoughtCount   int             `json:"mostBoughtCount"`
	Top5Products      []ProductStat   `json:"top5Products"`
	TotalCustomers    int             `json:"totalCustomers"`
	TopCustomer       string          `json:"topCustomer"`
	TopCustomerSpend  decimal.Decimal `json:"topCustomerSpend"`
}

// Summarize rolls up every order regardless of status; cancelled orders count
// towards revenue.
func Summarize(orders []*domain.Order) DashboardSummary {
	s := DashboardSummary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TopCustomerSpend:  decimal.Zero,
		TotalOrders:       len(orders),
		MostBoughtItem:    NoSalesYet,
		TopCustomer:       NoTopCustomer,
		Top5Products:      []ProductStat{},
	}

	for _, o := range orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.Total)
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
	}

	products := ProductStats(orders)
	if len(products) > 0 {
		s.MostBoughtItem = products[0].Name
		s.MostBoughtCount = products[0].Quantity
		s.Top5Products = products[:min(topProducts, len(products))]
	}

	customers := CustomerStats(orders)
	s.TotalCustomers = len(customers)
	if len(customers) > 0 {
		s.TopCustomer = customers[0].Name
		s.TopCustomerSpend = customers[0].Spend
	}
	return s
}

// ProductStats sums line quantities per item name, largest first. Ties keep
// the order in which the names were first seen.
func ProductStats(orders []*domain.Order) []ProductStat {
	index := map[string]int{}
	var stats []ProductStat
	for _, o := range orders {
		for _, l := range o.Lines {
			i, ok := index[l.ItemName]
			if !ok {
				i = len(stats)
				index[l.ItemName] = i
				stats = append(stats, ProductStat{Name: l.ItemName})
			}
			stats[i].Quantity += l.Quantity
		}
	}
	slices.SortStableFunc(stats, func(a, b ProductStat) int {
		return b.Quantity - a.Quantity
	})
	return stats
}

// CustomerStats sums order totals per customer display name, largest first.
// Orders without a customer are grouped under "Unknown".
func CustomerStats(orders []*domain.Order) []CustomerStat {
	index := map[string]int{}
	var stats []CustomerStat
	for _, o := range orders {
		name := o.CustomerName()
		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, CustomerStat{Name: name, Spend: decimal.Zero})
		}
		stats[i].Spend = stats[i].Spend.Add(o.Total)
	}
	slices.SortStableFunc(stats, func(a, b CustomerStat) int {
		return b.Spend.Cmp(a.Spend)
	})
	return stats
}
