package application

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

// CancellationListener handles externally-originated cancellations (for
// example a failed payment). It is independent of the coordinator's own
// failure handling: it loads whatever reservations exist for the order and
// compensates them, then acknowledges downstream.
type CancellationListener struct {
	log          *slog.Logger
	reservations ReservationLedger
	compensator  *Compensator
	egress       Egress
	tracer       trace.Tracer
}

func NewCancellationListener(
	log *slog.Logger,
	reservations ReservationLedger,
	compensator *Compensator,
	egress Egress,
) *CancellationListener {
	return &CancellationListener{
		log:          log,
		reservations: reservations,
		compensator:  compensator,
		egress:       egress,
		tracer:       otel.Tracer("store-saga"),
	}
}

// HandleOrderCanceled returns domain.ErrNoReservations when the order has
// no reservation rows; any other error is transient and safe to retry
// because compensation is idempotent.
func (l *CancellationListener) HandleOrderCanceled(ctx context.Context, event domain.OrderCanceled) error {
	ctx, span := l.tracer.Start(ctx, "CancelReservations",
		trace.WithAttributes(attribute.Int64("order.id", event.OrderID)))
	defer span.End()

	reservations, err := l.reservations.FindByOrder(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("find reservations for order %d: %w", event.OrderID, err)
	}
	if len(reservations) == 0 {
		return fmt.Errorf("order %d: %w", event.OrderID, domain.ErrNoReservations)
	}

	if err := l.compensator.Compensate(ctx, event.OrderID, reservations); err != nil {
		return err
	}

	if err := l.egress.PublishOrderCanceled(ctx, event); err != nil {
		return fmt.Errorf("publish cancellation ack for order %d: %w", event.OrderID, err)
	}

	l.log.Info("cancellation processed", "order_id", event.OrderID, "reservations", len(reservations))
	return nil
}
