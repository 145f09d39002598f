package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// ErrPermanent marks dispatch failures that retrying cannot fix.
var ErrPermanent = errors.New("permanent")

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher forwards outbox events to Kafka, routing each event type to
// its own producer. Each producer is expected to carry its topic and
// partition balancer, so routing decides both destination and placement.
type Dispatcher struct {
	log    *slog.Logger
	routes map[string]Producer
}

func NewDispatcher(log *slog.Logger, routes map[string]Producer) *Dispatcher {
	return &Dispatcher{log: log, routes: routes}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	producer, ok := d.routes[event.Type]
	if !ok {
		return fmt.Errorf("no route for event type %q: %w", event.Type, ErrPermanent)
	}

	headers := make([]kafka.Header, 0, len(event.Headers)+2)
	for k, v := range event.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(event.Type)})
	if event.Traceparent != "" {
		headers = append(headers, kafka.Header{Key: "traceparent", Value: []byte(event.Traceparent)})
	}

	msg := kafka.Message{
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
	if err := producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("outbox dispatch failed", "event_id", event.ID, "type", event.Type, "err", err)
		return err
	}
	d.log.Info("outbox dispatched", "event_id", event.ID, "type", event.Type, "key", event.AggregateID)
	return nil
}
