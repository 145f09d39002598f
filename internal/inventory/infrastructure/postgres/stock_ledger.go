package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

// StockLedger guards every quantity mutation with a row-level lock so
// concurrent orders against the same (store, product) row serialize
// instead of racing past each other.
type StockLedger struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewStockLedger(log *slog.Logger, pool *pgxpool.Pool) *StockLedger {
	return &StockLedger{log: log, pool: pool}
}

// TryReserve locks the stock row, checks availability and decrements in a
// single transaction. A missing row reports false, same as insufficiency.
func (l *StockLedger) TryReserve(ctx context.Context, storeID, productID int64, quantity int) (bool, error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var available int
	err = tx.QueryRow(ctx, `
		SELECT stock_available_quantity
		FROM stock
		WHERE store_id = $1 AND product_id = $2
		FOR UPDATE
	`, storeID, productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock stock row: %w", err)
	}

	if available < quantity {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE stock
		SET stock_available_quantity = stock_available_quantity - $3,
		    stock_last_updated = now()
		WHERE store_id = $1 AND product_id = $2
	`, storeID, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Release adds quantity back to the exact (store, product) row it was
// reserved from. Other stores may carry the same product and must not be
// touched.
func (l *StockLedger) Release(ctx context.Context, storeID, productID int64, quantity int) error {
	ct, err := l.pool.Exec(ctx, `
		UPDATE stock
		SET stock_available_quantity = stock_available_quantity + $3,
		    stock_last_updated = now()
		WHERE store_id = $1 AND product_id = $2
	`, storeID, productID, quantity)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("store %d product %d: %w", storeID, productID, domain.ErrStockRowMissing)
	}
	return nil
}
