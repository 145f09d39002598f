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

// CancellationConsumer reads payment cancellation events. Compensation is
// idempotent, so transient failures are retried in place a few times before
// the message is committed and left to operators.
type CancellationConsumer struct {
	log        *slog.Logger
	reader     MessageReader
	idem       Deduplicator
	listener   *application.CancellationListener
	deadLetter *DeadLetter
	tracer     trace.Tracer

	retries      int
	backoff      time.Duration
	fetchBackoff time.Duration
}

func NewCancellationConsumer(
	log *slog.Logger,
	reader MessageReader,
	idem Deduplicator,
	listener *application.CancellationListener,
	deadLetter *DeadLetter,
) *CancellationConsumer {
	return &CancellationConsumer{
		log:          log,
		reader:       reader,
		idem:         idem,
		listener:     listener,
		deadLetter:   deadLetter,
		tracer:       otel.Tracer("store-consumer"),
		retries:      3,
		backoff:      200 * time.Millisecond,
		fetchBackoff: 500 * time.Millisecond,
	}
}

func (c *CancellationConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			c.log.Error("cancellation fetch failed", "err", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("cancellation commit failed", "offset", msg.Offset, "err", err)
		}
	}
}

func (c *CancellationConsumer) handle(ctx context.Context, msg kafka.Message) {
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
	ctx, span := c.tracer.Start(ctx, "ConsumeOrderCanceled",
		trace.WithAttributes(
			attribute.String("messaging.kafka.topic", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		))
	defer span.End()

	var event domain.OrderCanceled
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.deadLetter.Park(ctx, msg, "malformed payload: "+err.Error())
		return
	}
	if err := event.Validate(); err != nil {
		c.deadLetter.Park(ctx, msg, err.Error())
		return
	}
	span.SetAttributes(attribute.Int64("order.id", event.OrderID))

	for attempt := 0; ; attempt++ {
		err := c.listener.HandleOrderCanceled(ctx, event)
		if err == nil {
			return
		}
		if errors.Is(err, domain.ErrNoReservations) {
			c.log.Warn("cancellation for unknown order", "order_id", event.OrderID)
			return
		}
		if attempt >= c.retries {
			c.log.Error("cancellation abandoned after retries",
				"order_id", event.OrderID, "attempts", attempt+1, "err", err)
			return
		}
		c.log.Warn("cancellation retrying", "order_id", event.OrderID, "attempt", attempt+1, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.backoff << attempt):
		}
	}
}
