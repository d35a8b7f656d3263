package notification

import (
	"context"
	"log/slog"

	"github.com/fjod/kitchen/pkg/circuitbreaker"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// BreakerNotifier stops calling a failing Notifier for a while instead of
// waiting on every event for a dead mail relay.
type BreakerNotifier struct {
	next Notifier
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerNotifier(next Notifier, cfg circuitbreaker.Config, log *slog.Logger) *BreakerNotifier {
	return &BreakerNotifier{
		next: next,
		cb:   circuitbreaker.New[struct{}](cfg, log),
	}
}

func (b *BreakerNotifier) SendOrderConfirmation(ctx context.Context, toEmail, customerName string, orderID int64, total decimal.Decimal) error {
	return b.execute(func() error {
		return b.next.SendOrderConfirmation(ctx, toEmail, customerName, orderID, total)
	})
}

func (b *BreakerNotifier) SendStatusUpdate(ctx context.Context, toEmail, customerName string, orderID int64, statusLabel string) error {
	return b.execute(func() error {
		return b.next.SendStatusUpdate(ctx, toEmail, customerName, orderID, statusLabel)
	})
}

func (b *BreakerNotifier) execute(call func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, call()
	})
	return err
}
