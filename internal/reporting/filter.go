package reporting

import (
	"strings"
	"time"

	"github.com/fjod/kitchen/internal/domain"
)

const (
	FilterToday      = "today"
	FilterLast10Days = "last10days"
	FilterSpecific   = "specific"
)

// DateRange is the half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// RangeFor turns a listing filter into a date range in now's location.
// It reports false when the listing is unfiltered: no filter, an unknown
// filter, or "specific" without a date.
func RangeFor(filterType string, specific, now time.Time) (DateRange, bool) {
	today := startOfDay(now)
	switch strings.ToLower(strings.TrimSpace(filterType)) {
	case FilterToday:
		return DateRange{From: today, To: today.AddDate(0, 0, 1)}, true
	case FilterLast10Days:
		return DateRange{From: today.AddDate(0, 0, -10), To: today.AddDate(0, 0, 1)}, true
	case FilterSpecific:
		if specific.IsZero() {
			return DateRange{}, false
		}
		// calendar date as written, whatever zone it was parsed in
		y, m, d := specific.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		return DateRange{From: day, To: day.AddDate(0, 0, 1)}, true
	default:
		return DateRange{}, false
	}
}

// FilterOrders keeps the orders placed inside the filter's date range.
func FilterOrders(orders []*domain.Order, filterType string, specific, now time.Time) []*domain.Order {
	r, ok := RangeFor(filterType, specific, now)
	if !ok {
		return orders
	}
	out := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if r.Contains(o.PlacedAt) {
			out = append(out, o)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
