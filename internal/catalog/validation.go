package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product")

var (
	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.RequireFromString("9999.99")
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxImageURLLen    = 200
)

// ValidationError lists the offending fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidProduct
}

// Validate trims the text fields in place and checks them against the menu
// form rules.
func Validate(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Category = strings.TrimSpace(p.Category)

	fields := map[string]string{}
	switch {
	case p.Name == "":
		fields["name"] = "is required"
	case utf8.RuneCountInString(p.Name) > maxNameLen:
		fields["name"] = fmt.Sprintf("must be at most %d characters", maxNameLen)
	}
	if p.Price.LessThan(minPrice) || p.Price.GreaterThan(maxPrice) {
		fields["price"] = fmt.Sprintf("must be between %s and %s", minPrice, maxPrice)
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		fields["description"] = fmt.Sprintf("must be at most %d characters", maxDescriptionLen)
	}
	if utf8.RuneCountInString(p.ImageURL) > maxImageURLLen {
		fields["imageUrl"] = fmt.Sprintf("must be at most %d characters", maxImageURLLen)
	}
	if p.Category == "" {
		fields["category"] = "is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
