// Package notification delivers order emails. It sits behind the order
// event stream, so every failure here is logged and counted but never
// reaches the customer's request.
package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
)

var ErrNoRecipient = errors.New("order has no customer email")

// Notifier sends the two customer emails of an order's life.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, toEmail, customerName string, orderID int64, total decimal.Decimal) error
	SendStatusUpdate(ctx context.Context, toEmail, customerName string, orderID int64, statusLabel string) error
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, toEmail, customerName string, orderID int64, total decimal.Decimal) error {
	n.log.InfoContext(ctx, "order confirmation",
		"to", toEmail, "customer", customerName, "order_id", orderID, "total", total.StringFixed(2))
	return nil
}

func (n *LogNotifier) SendStatusUpdate(ctx context.Context, toEmail, customerName string, orderID int64, statusLabel string) error {
	n.log.InfoContext(ctx, "order status update",
		"to", toEmail, "customer", customerName, "order_id", orderID, "status", statusLabel)
	return nil
}
