package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
)

const codecVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported cart payload version")

type payload struct {
	Version int           `json:"version"`
	Lines   []payloadLine `json:"lines"`
}

type payloadLine struct {
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image_ref,omitempty"`
}

func Encode(c *domain.Cart) (string, error) {
	p := payload{Version: codecVersion, Lines: make([]payloadLine, 0, len(c.Lines))}
	for _, l := range c.Lines {
		p.Lines = append(p.Lines, payloadLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			ImageRef:  l.ImageRef,
		})
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal cart failed: %w", err)
	}
	return string(data), nil
}

// Decode always returns a usable cart. Empty input is a fresh cart; malformed
// or foreign payloads come back as an empty cart together with the reason.
// Lines that break the cart invariants are dropped and duplicates merged.
func Decode(raw string) (*domain.Cart, error) {
	c := &domain.Cart{}
	if raw == "" {
		return c, nil
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return c, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if p.Version != codecVersion {
		return c, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}

	for _, l := range p.Lines {
		if l.Quantity < 1 || l.Name == "" || l.UnitPrice.IsNegative() {
			continue
		}
		merged := false
		for i := range c.Lines {
			if c.Lines[i].ItemID == l.ItemID && c.Lines[i].Name == l.Name {
				c.Lines[i].Quantity += l.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c.Lines = append(c.Lines, domain.CartLine{
				ItemID:    l.ItemID,
				Name:      l.Name,
				UnitPrice: l.UnitPrice,
				Quantity:  l.Quantity,
				ImageRef:  l.ImageRef,
			})
		}
	}
	return c, nil
}
