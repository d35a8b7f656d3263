package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/events"
	"github.com/fjod/kitchen/internal/metrics"
)

// NewHandler turns order events into emails. Orders without a customer email
// are skipped; status changes other than preparing and ready are ignored.
func NewHandler(n Notifier, m *metrics.Metrics, log *slog.Logger) events.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, ev events.OrderEvent) error {
		if ev.ToEmail == "" {
			log.DebugContext(ctx, "skipping notification without recipient", "order_id", ev.OrderID, "type", ev.Type)
			return nil
		}

		var err error
		switch ev.Type {
		case events.TypeOrderPlaced:
			err = n.SendOrderConfirmation(ctx, ev.ToEmail, ev.CustomerName, ev.OrderID, ev.Total)
		case events.TypeOrderStatusChanged:
			if ev.Status != domain.OrderStatusPreparing && ev.Status != domain.OrderStatusReadyForPickup {
				return nil
			}
			err = n.SendStatusUpdate(ctx, ev.ToEmail, ev.CustomerName, ev.OrderID, ev.StatusLabel)
		default:
			return fmt.Errorf("unsupported event type %q", ev.Type)
		}

		if err != nil {
			m.NotificationFailed(string(ev.Type))
			return fmt.Errorf("notify order %d: %w", ev.OrderID, err)
		}
		return nil
	}
}
