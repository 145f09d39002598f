package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

type ReservationLedger struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewReservationLedger(log *slog.Logger, pool *pgxpool.Pool) *ReservationLedger {
	return &ReservationLedger{log: log, pool: pool}
}

func (l *ReservationLedger) Append(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	err := l.pool.QueryRow(ctx, `
		INSERT INTO inventory_reservation (store_id, product_id, order_id, reserved_quantity, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, reserve_inventory_last_updated
	`, r.StoreID, r.ProductID, r.OrderID, r.ReservedQuantity, r.Status).Scan(&r.ID, &r.LastUpdated)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("append reservation: %w", err)
	}
	return r, nil
}

func (l *ReservationLedger) FindByOrder(ctx context.Context, orderID int64) ([]domain.Reservation, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, order_id, store_id, product_id, reserved_quantity, status, reserve_inventory_last_updated
		FROM inventory_reservation
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("find reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var r domain.Reservation
		if err := rows.Scan(&r.ID, &r.OrderID, &r.StoreID, &r.ProductID, &r.ReservedQuantity, &r.Status, &r.LastUpdated); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// CancelAndRestore is the compensation step for one reservation. The
// conditional UPDATE on status is the idempotency guard: a row that is
// already CANCELED flips zero rows and nothing is restored. Flip and
// restore share one transaction, so a missing stock row rolls the flip
// back instead of stranding a CANCELED reservation with lost stock.
func (l *ReservationLedger) CancelAndRestore(ctx context.Context, r domain.Reservation) (bool, error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `
		UPDATE inventory_reservation
		SET status = $2, reserve_inventory_last_updated = now()
		WHERE id = $1 AND status = $3
	`, r.ID, domain.StatusCanceled, domain.StatusReserved)
	if err != nil {
		return false, fmt.Errorf("cancel reservation: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return false, tx.Commit(ctx)
	}

	ct, err = tx.Exec(ctx, `
		UPDATE stock
		SET stock_available_quantity = stock_available_quantity + $3,
		    stock_last_updated = now()
		WHERE store_id = $1 AND product_id = $2
	`, r.StoreID, r.ProductID, r.ReservedQuantity)
	if err != nil {
		return false, fmt.Errorf("restore stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return false, fmt.Errorf("store %d product %d: %w", r.StoreID, r.ProductID, domain.ErrStockRowMissing)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
