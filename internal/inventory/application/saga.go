package application

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

// itemOutcome is the explicit result of one reservation step. Shortfall is
// a business outcome, not an error: it drives compensation and the
// cancellation event, and is never surfaced to the delivery layer.
type itemOutcome int

const (
	itemReserved itemOutcome = iota
	itemShortfall
)

// SagaCoordinator drives the per-item reserve loop for one OrderCreated
// event. Items are processed strictly in payload order; the first shortfall
// compensates everything reserved so far and stops the loop. Exactly one
// outbound event leaves per invocation: StoreUpdated on success, or
// OrderCanceled on any shortfall or infrastructure failure.
type SagaCoordinator struct {
	log           *slog.Logger
	stock         StockLedger
	reservations  ReservationLedger
	compensator   *Compensator
	egress        Egress
	merchantEmail string

	tracer        trace.Tracer
	completed     metric.Int64Counter
	compensated   metric.Int64Counter
	infraFailures metric.Int64Counter
}

func NewSagaCoordinator(
	log *slog.Logger,
	stock StockLedger,
	reservations ReservationLedger,
	compensator *Compensator,
	egress Egress,
	merchantEmail string,
) *SagaCoordinator {
	meter := otel.Meter("store-saga")
	return &SagaCoordinator{
		log:           log,
		stock:         stock,
		reservations:  reservations,
		compensator:   compensator,
		egress:        egress,
		merchantEmail: merchantEmail,
		tracer:        otel.Tracer("store-saga"),
		completed:     counter(meter, "saga.orders.completed"),
		compensated:   counter(meter, "saga.orders.compensated"),
		infraFailures: counter(meter, "saga.infra.failures"),
	}
}

func counter(meter metric.Meter, name string) metric.Int64Counter {
	c, _ := meter.Int64Counter(name)
	return c
}

// HandleOrderCreated always completes: every outcome is absorbed into
// events, logs and counters so the consumer can commit unconditionally and
// the broker never enters a redelivery loop over business failures.
func (s *SagaCoordinator) HandleOrderCreated(ctx context.Context, order domain.OrderCreated) {
	ctx, span := s.tracer.Start(ctx, "ReserveOrder",
		trace.WithAttributes(attribute.Int64("order.id", order.OrderID)))
	defer span.End()

	reserved := make([]domain.Reservation, 0, len(order.OrderItems))

	for _, item := range order.OrderItems {
		outcome, res, err := s.reserveItem(ctx, order.OrderID, item)
		if err != nil {
			s.log.Error("reservation step failed",
				"order_id", order.OrderID, "product_id", item.ProductID, "err", err)
			s.infraFailures.Add(ctx, 1)
			s.abort(ctx, order, reserved,
				fmt.Sprintf("Could not reserve product %d for order %d", item.ProductID, order.OrderID))
			return
		}
		if outcome == itemShortfall {
			s.log.Info("stock shortfall",
				"order_id", order.OrderID, "product_id", item.ProductID, "requested", item.Quantity)
			s.compensated.Add(ctx, 1)
			s.abort(ctx, order, reserved,
				fmt.Sprintf("Not enough inventory for product %d", item.ProductID))
			return
		}
		reserved = append(reserved, res)
	}

	updated := domain.StoreUpdated{
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		Status:          string(domain.StatusReserved),
		CustomerEmail:   order.CustomerEmail,
		CustomerName:    order.CustomerName,
		CustomerContact: order.CustomerContact,
		AddressDetails:  order.AddressDetails,
		PaymentAmount:   order.PaymentAmount,
		PaymentMethod:   order.PaymentMethod,
		MerchantEmail:   s.merchantEmail,
	}
	if err := s.egress.PublishStoreUpdated(ctx, updated); err != nil {
		s.log.Error("store updated publish failed", "order_id", order.OrderID, "err", err)
		s.infraFailures.Add(ctx, 1)
		s.abort(ctx, order, reserved,
			fmt.Sprintf("Could not confirm reservation for order %d", order.OrderID))
		return
	}

	s.completed.Add(ctx, 1)
	s.log.Info("order reserved", "order_id", order.OrderID, "items", len(reserved))
}

// reserveItem decrements stock and appends the reservation row. When the
// append fails after a successful decrement, the decrement is undone here
// so the caller's compensation set stays exactly "everything appended".
func (s *SagaCoordinator) reserveItem(ctx context.Context, orderID int64, item domain.OrderItem) (itemOutcome, domain.Reservation, error) {
	ok, err := s.stock.TryReserve(ctx, item.StoreID, item.ProductID, item.Quantity)
	if err != nil {
		return itemShortfall, domain.Reservation{}, fmt.Errorf("try reserve: %w", err)
	}
	if !ok {
		return itemShortfall, domain.Reservation{}, nil
	}

	res, err := s.reservations.Append(ctx, domain.NewReservation(orderID, item.StoreID, item.ProductID, item.Quantity))
	if err != nil {
		if rerr := s.stock.Release(ctx, item.StoreID, item.ProductID, item.Quantity); rerr != nil {
			s.log.Error("release after failed append",
				"order_id", orderID, "product_id", item.ProductID, "err", rerr)
		}
		return itemShortfall, domain.Reservation{}, fmt.Errorf("append reservation: %w", err)
	}
	return itemReserved, res, nil
}

func (s *SagaCoordinator) abort(ctx context.Context, order domain.OrderCreated, reserved []domain.Reservation, reason string) {
	if len(reserved) > 0 {
		if err := s.compensator.Compensate(ctx, order.OrderID, reserved); err != nil {
			s.log.Error("compensation failed", "order_id", order.OrderID, "err", err)
			s.infraFailures.Add(ctx, 1)
		}
	}

	canceled := domain.OrderCanceled{
		OrderID:       order.OrderID,
		Reason:        reason,
		CustomerEmail: order.CustomerEmail,
	}
	if err := s.egress.PublishOrderCanceled(ctx, canceled); err != nil {
		s.log.Error("order canceled publish failed", "order_id", order.OrderID, "err", err)
		s.infraFailures.Add(ctx, 1)
	}
}
