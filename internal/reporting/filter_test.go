package reporting

import (
	"testing"
	"time"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/stretchr/testify/assert"
)

func placed(t time.Time) *domain.Order {
	return &domain.Order{PlacedAt: t}
}

func TestRangeFor(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC)
	today := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   string
		specific time.Time
		want     DateRange
		ok       bool
	}{
		{"today", "today", time.Time{}, DateRange{today, today.AddDate(0, 0, 1)}, true},
		{"today case-insensitive", "Today", time.Time{}, DateRange{today, today.AddDate(0, 0, 1)}, true},
		{"last 10 days", "last10days", time.Time{}, DateRange{today.AddDate(0, 0, -10), today.AddDate(0, 0, 1)}, true},
		{"specific", "specific", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			DateRange{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)}, true},
		{"specific without date", "specific", time.Time{}, DateRange{}, false},
		{"none", "", time.Time{}, DateRange{}, false},
		{"unknown", "lastyear", time.Time{}, DateRange{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RangeFor(tt.filter, tt.specific, now)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.From.Equal(got.From), "from %v", got.From)
			assert.True(t, tt.want.To.Equal(got.To), "to %v", got.To)
		})
	}
}

func TestFilterOrders(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC)

	morning := placed(time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC))
	tenDaysAgo := placed(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC))
	elevenDaysAgo := placed(time.Date(2026, 5, 9, 23, 59, 0, 0, time.UTC))
	orders := []*domain.Order{morning, tenDaysAgo, elevenDaysAgo}

	assert.Equal(t, []*domain.Order{morning}, FilterOrders(orders, FilterToday, time.Time{}, now))
	assert.Equal(t, []*domain.Order{morning, tenDaysAgo}, FilterOrders(orders, FilterLast10Days, time.Time{}, now))
	assert.Equal(t, []*domain.Order{elevenDaysAgo},
		FilterOrders(orders, FilterSpecific, time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, orders, FilterOrders(orders, "bogus", time.Time{}, now))
}
