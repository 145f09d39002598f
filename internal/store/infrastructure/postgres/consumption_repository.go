package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type ConsumptionRepository struct {
	pool *pgxpool.Pool
}

func NewConsumptionRepository(pool *pgxpool.Pool) *ConsumptionRepository {
	return &ConsumptionRepository{pool: pool}
}

// Record decrements the stock row under a row lock and inserts the
// consumption in the same transaction.
func (r *ConsumptionRepository) Record(ctx context.Context, c domain.ProductConsumption) (domain.ProductConsumption, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.ProductConsumption{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var available int
	err = tx.QueryRow(ctx, `
		SELECT stock_available_quantity FROM stock
		WHERE store_id = $1 AND product_id = $2
		FOR UPDATE
	`, c.StoreID, c.ProductID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProductConsumption{}, fmt.Errorf("store %d product %d: %w", c.StoreID, c.ProductID, domain.ErrStockNotFound)
	}
	if err != nil {
		return domain.ProductConsumption{}, err
	}
	if available < c.Quantity {
		return domain.ProductConsumption{}, fmt.Errorf("store %d product %d has %d: %w",
			c.StoreID, c.ProductID, available, domain.ErrInsufficientStock)
	}

	_, err = tx.Exec(ctx, `
		UPDATE stock
		SET stock_available_quantity = stock_available_quantity - $3,
		    stock_last_updated = now()
		WHERE store_id = $1 AND product_id = $2
	`, c.StoreID, c.ProductID, c.Quantity)
	if err != nil {
		return domain.ProductConsumption{}, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO product_consumptions (product_id, store_id, product_name, product_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, consumed_at
	`, c.ProductID, c.StoreID, c.ProductName, c.ProductPrice, c.Quantity).Scan(&c.ID, &c.ConsumedAt)
	if err != nil {
		return domain.ProductConsumption{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ProductConsumption{}, err
	}
	return c, nil
}

func (r *ConsumptionRepository) FindByID(ctx context.Context, id int64) (domain.ProductConsumption, error) {
	var c domain.ProductConsumption
	err := r.pool.QueryRow(ctx, `
		SELECT id, product_id, store_id, product_name, product_price, quantity, consumed_at
		FROM product_consumptions WHERE id = $1
	`, id).Scan(&c.ID, &c.ProductID, &c.StoreID, &c.ProductName, &c.ProductPrice, &c.Quantity, &c.ConsumedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProductConsumption{}, fmt.Errorf("consumption %d: %w", id, domain.ErrConsumptionNotFound)
	}
	if err != nil {
		return domain.ProductConsumption{}, err
	}
	return c, nil
}

func (r *ConsumptionRepository) FindByStore(ctx context.Context, storeID int64) ([]domain.ProductConsumption, error) {
	return r.query(ctx, `
		SELECT id, product_id, store_id, product_name, product_price, quantity, consumed_at
		FROM product_consumptions WHERE store_id = $1 ORDER BY id
	`, storeID)
}

func (r *ConsumptionRepository) FindAll(ctx context.Context) ([]domain.ProductConsumption, error) {
	return r.query(ctx, `
		SELECT id, product_id, store_id, product_name, product_price, quantity, consumed_at
		FROM product_consumptions ORDER BY id
	`)
}

func (r *ConsumptionRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM product_consumptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("consumption %d: %w", id, domain.ErrConsumptionNotFound)
	}
	return nil
}

func (r *ConsumptionRepository) query(ctx context.Context, sql string, args ...any) ([]domain.ProductConsumption, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consumptions []domain.ProductConsumption
	for rows.Next() {
		var c domain.ProductConsumption
		if err := rows.Scan(&c.ID, &c.ProductID, &c.StoreID, &c.ProductName, &c.ProductPrice, &c.Quantity, &c.ConsumedAt); err != nil {
			return nil, err
		}
		consumptions = append(consumptions, c)
	}
	return consumptions, rows.Err()
}
