package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Fawry-Intern/store-api/internal/inventory/application"
	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
	"github.com/Fawry-Intern/store-api/pkg/tracing"
)

// MessageReader is the subset of kafka.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Deduplicator guards against redelivered messages. Exists is checked on
// receipt; Mark is called only after the message has been fully handled.
type Deduplicator interface {
	Key(topic string, partition int, offset int64) string
	Exists(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// OrderConsumer reads OrderCreated events and drives the reservation saga.
// The saga itself never fails the message: shortfalls and infrastructure
// errors resolve into compensation inside the coordinator, so every fetched
// message is committed exactly once here.
type OrderConsumer struct {
	log        *slog.Logger
	reader     MessageReader
	idem       Deduplicator
	saga       *application.SagaCoordinator
	deadLetter *DeadLetter
	tracer     trace.Tracer

	fetchBackoff time.Duration
}

func NewOrderConsumer(
	log *slog.Logger,
	reader MessageReader,
	idem Deduplicator,
	saga *application.SagaCoordinator,
	deadLetter *DeadLetter,
) *OrderConsumer {
	return &OrderConsumer{
		log:          log,
		reader:       reader,
		idem:         idem,
		saga:         saga,
		deadLetter:   deadLetter,
		tracer:       otel.Tracer("store-consumer"),
		fetchBackoff: 500 * time.Millisecond,
	}
}

func (c *OrderConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			c.log.Error("order fetch failed", "err", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("order commit failed", "offset", msg.Offset, "err", err)
		}
	}
}

func (c *OrderConsumer) handle(ctx context.Context, msg kafka.Message) {
	key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
	seen, err := c.idem.Exists(ctx, key)
	if err != nil {
		c.log.Warn("idempotency check unavailable, processing anyway", "key", key, "err", err)
	} else if seen {
		c.log.Info("duplicate delivery skipped", "key", key)
		return
	}
	defer func() {
		if err := c.idem.Mark(ctx, key); err != nil {
			c.log.Warn("idempotency mark failed", "key", key, "err", err)
		}
	}()

	ctx = tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	ctx, span := c.tracer.Start(ctx, "ConsumeOrderCreated",
		trace.WithAttributes(
			attribute.String("messaging.kafka.topic", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		))
	defer span.End()

	var event domain.OrderCreated
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.deadLetter.Park(ctx, msg, "malformed payload: "+err.Error())
		return
	}
	if err := event.Validate(); err != nil {
		c.deadLetter.Park(ctx, msg, err.Error())
		return
	}

	span.SetAttributes(attribute.Int64("order.id", event.OrderID))
	c.saga.HandleOrderCreated(ctx, event)
}
