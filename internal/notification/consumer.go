package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fjod/kitchen/internal/events"
	"github.com/segmentio/kafka-go"
)

// Consumer reads order events from Kafka and hands each to a handler.
// Offsets are committed on read, so an event is attempted at most once.
type Consumer struct {
	handler events.Handler
	reader  *kafka.Reader
	log     *slog.Logger
}

func NewConsumer(handler events.Handler, topic, groupID string, log *slog.Logger, brokers ...string) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	if topic == "" {
		topic = events.DefaultTopic
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{handler: handler, reader: reader, log: log}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		c.log.ErrorContext(ctx, "error reading order event", "error", err)
		return
	}

	ev, err := events.Unmarshal(m.Value)
	if err != nil {
		c.log.WarnContext(ctx, "dropping unreadable order event",
			"partition", m.Partition, "offset", m.Offset, "error", err)
		return
	}

	if err := c.handler(ctx, ev); err != nil {
		c.log.WarnContext(ctx, "order notification failed",
			"event_id", ev.EventID, "type", ev.Type, "order_id", ev.OrderID, "error", err)
		return
	}
	c.log.DebugContext(ctx, "order event handled", "event_id", ev.EventID, "order_id", ev.OrderID)
}
