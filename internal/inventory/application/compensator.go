package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

// Compensator reverses reservations: each still-RESERVED row is flipped to
// CANCELED and its quantity returned to stock. Rows already CANCELED are
// skipped, so compensating the same order twice restores stock exactly once.
type Compensator struct {
	log          *slog.Logger
	reservations ReservationLedger
}

func NewCompensator(log *slog.Logger, reservations ReservationLedger) *Compensator {
	return &Compensator{log: log, reservations: reservations}
}

// Compensate works through the given reservations in order. The list may be
// the coordinator's in-memory partial set or a persisted lookup from the
// cancellation path; both carry ledger-assigned ids.
func (c *Compensator) Compensate(ctx context.Context, orderID int64, reservations []domain.Reservation) error {
	for _, r := range reservations {
		if r.Status != domain.StatusReserved {
			continue
		}
		restored, err := c.reservations.CancelAndRestore(ctx, r)
		if err != nil {
			return fmt.Errorf("compensate order %d reservation %d: %w", orderID, r.ID, err)
		}
		if !restored {
			c.log.Debug("reservation already canceled", "order_id", orderID, "reservation_id", r.ID)
			continue
		}
		c.log.Info("reservation compensated",
			"order_id", orderID,
			"reservation_id", r.ID,
			"product_id", r.ProductID,
			"quantity", r.ReservedQuantity,
		)
	}
	return nil
}
