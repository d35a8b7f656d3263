package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjod/kitchen/internal/domain"
)

// SessionKey is the fixed session bag key holding the serialized cart.
const SessionKey = "Cart"

// Bag is the part of the session bag the cart needs.
type Bag interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Store struct {
	log *slog.Logger
}

func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{log: log}
}

// Load reads the cart from the bag. Unreadable payloads degrade to an empty cart.
func (s *Store) Load(ctx context.Context, bag Bag) (*domain.Cart, error) {
	raw, ok, err := bag.Get(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return &domain.Cart{}, nil
	}
	c, decodeErr := Decode(raw)
	if decodeErr != nil {
		s.log.WarnContext(ctx, "discarding unreadable cart payload", "error", decodeErr)
	}
	return c, nil
}

// Save writes the cart back; an empty cart removes the key.
func (s *Store) Save(ctx context.Context, bag Bag, c *domain.Cart) error {
	if c.IsEmpty() {
		if err := bag.Remove(ctx, SessionKey); err != nil {
			return fmt.Errorf("remove cart: %w", err)
		}
		return nil
	}
	raw, err := Encode(c)
	if err != nil {
		return err
	}
	if err := bag.Set(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
