package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type StockRepository struct {
	pool *pgxpool.Pool
}

func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// Upsert inserts the stock row or adds to the existing quantity for the
// same (store, product) pair.
func (r *StockRepository) Upsert(ctx context.Context, s domain.Stock) (domain.Stock, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stock (product_id, store_id, stock_available_quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_id, product_id) DO UPDATE
		SET stock_available_quantity = stock.stock_available_quantity + EXCLUDED.stock_available_quantity,
		    stock_last_updated = now()
		RETURNING stock_id, stock_available_quantity, stock_last_updated
	`, s.ProductID, s.StoreID, s.AvailableQuantity).Scan(&s.ID, &s.AvailableQuantity, &s.LastUpdated)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("upsert stock: %w", err)
	}
	return s, nil
}

func (r *StockRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID int64) (domain.Stock, error) {
	var s domain.Stock
	err := r.pool.QueryRow(ctx, `
		SELECT stock_id, product_id, store_id, stock_available_quantity, stock_last_updated
		FROM stock
		WHERE store_id = $1 AND product_id = $2
	`, storeID, productID).Scan(&s.ID, &s.ProductID, &s.StoreID, &s.AvailableQuantity, &s.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Stock{}, fmt.Errorf("store %d product %d: %w", storeID, productID, domain.ErrStockNotFound)
	}
	if err != nil {
		return domain.Stock{}, err
	}
	return s, nil
}

func (r *StockRepository) FindByStore(ctx context.Context, storeID int64) ([]domain.Stock, error) {
	return r.query(ctx, `
		SELECT stock_id, product_id, store_id, stock_available_quantity, stock_last_updated
		FROM stock WHERE store_id = $1 ORDER BY stock_id
	`, storeID)
}

func (r *StockRepository) FindAll(ctx context.Context) ([]domain.Stock, error) {
	return r.query(ctx, `
		SELECT stock_id, product_id, store_id, stock_available_quantity, stock_last_updated
		FROM stock ORDER BY stock_id
	`)
}

func (r *StockRepository) SetQuantity(ctx context.Context, storeID, productID int64, quantity int) (domain.Stock, error) {
	var s domain.Stock
	err := r.pool.QueryRow(ctx, `
		UPDATE stock
		SET stock_available_quantity = $3, stock_last_updated = now()
		WHERE store_id = $1 AND product_id = $2
		RETURNING stock_id, product_id, store_id, stock_available_quantity, stock_last_updated
	`, storeID, productID, quantity).Scan(&s.ID, &s.ProductID, &s.StoreID, &s.AvailableQuantity, &s.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Stock{}, fmt.Errorf("store %d product %d: %w", storeID, productID, domain.ErrStockNotFound)
	}
	if err != nil {
		return domain.Stock{}, err
	}
	return s, nil
}

func (r *StockRepository) Delete(ctx context.Context, storeID, productID int64) error {
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM stock WHERE store_id = $1 AND product_id = $2
	`, storeID, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("store %d product %d: %w", storeID, productID, domain.ErrStockNotFound)
	}
	return nil
}

func (r *StockRepository) ProductIDsByStore(ctx context.Context, storeID int64, offset, limit int) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id FROM stock
		WHERE store_id = $1
		ORDER BY product_id
		OFFSET $2 LIMIT $3
	`, storeID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *StockRepository) StatsByStore(ctx context.Context, storeID int64) (domain.StoreStats, error) {
	var stats domain.StoreStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*), coalesce(sum(stock_available_quantity), 0)
		FROM stock WHERE store_id = $1
	`, storeID).Scan(&stats.ProductCount, &stats.TotalQuantity)
	if err != nil {
		return domain.StoreStats{}, err
	}
	return stats, nil
}

func (r *StockRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Stock, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.Stock
	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.StoreID, &s.AvailableQuantity, &s.LastUpdated); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
