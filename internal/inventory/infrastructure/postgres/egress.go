package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
	"github.com/Fawry-Intern/store-api/pkg/tracing"
)

// OutboxEgress implements the saga's event egress with the transactional
// outbox: publishing is an insert, and the relay moves rows to Kafka. The
// order id becomes the aggregate id, which the dispatcher uses as the
// message key for partition routing.
type OutboxEgress struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxEgress(log *slog.Logger, pool *pgxpool.Pool) *OutboxEgress {
	return &OutboxEgress{log: log, pool: pool}
}

func (e *OutboxEgress) PublishStoreUpdated(ctx context.Context, event domain.StoreUpdated) error {
	return e.insert(ctx, event.OrderID, domain.EventTypeStoreUpdated, event)
}

func (e *OutboxEgress) PublishOrderCanceled(ctx context.Context, event domain.OrderCanceled) error {
	return e.insert(ctx, event.OrderID, domain.EventTypeOrderCanceled, event)
}

func (e *OutboxEgress) insert(ctx context.Context, orderID int64, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}

	headers := map[string]string{"source": "store-api"}
	_, err = e.pool.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
	`, "store", strconv.FormatInt(orderID, 10), eventType, body, headers, tracing.Traceparent(ctx))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", eventType, err)
	}

	e.log.Info("event enqueued", "type", eventType, "order_id", orderID)
	return nil
}
