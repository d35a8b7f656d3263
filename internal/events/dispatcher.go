package events

import (
	"context"
	"errors"
	"log/slog"
)

var ErrQueueFull = errors.New("event queue is full")

// Dispatcher is an in-process Publisher: events are queued on a buffered
// channel and handled by a single worker goroutine started with Run.
type Dispatcher struct {
	queue   chan OrderEvent
	handler Handler
	log     *slog.Logger
}

func NewDispatcher(handler Handler, buffer int, log *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		queue:   make(chan OrderEvent, buffer),
		handler: handler,
		log:     log,
	}
}

// Publish never blocks; a full queue drops the event.
func (d *Dispatcher) Publish(ctx context.Context, event OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case d.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run handles queued events until ctx is cancelled. Events still queued at
// that point are abandoned.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.queue:
			if err := d.handler(ctx, ev); err != nil {
				d.log.WarnContext(ctx, "order event handler failed",
					"event_id", ev.EventID, "type", ev.Type, "order_id", ev.OrderID, "error", err)
			}
		}
	}
}
