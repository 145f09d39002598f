package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type StoreRepository struct {
	pool *pgxpool.Pool
}

func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

func (r *StoreRepository) Create(ctx context.Context, s domain.Store) (domain.Store, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stores (store_name, store_address)
		VALUES ($1, $2)
		RETURNING store_id
	`, s.Name, s.Address).Scan(&s.ID)
	if err != nil {
		return domain.Store{}, fmt.Errorf("create store: %w", err)
	}
	return s, nil
}

func (r *StoreRepository) FindByID(ctx context.Context, id int64) (domain.Store, error) {
	var s domain.Store
	err := r.pool.QueryRow(ctx, `
		SELECT store_id, store_name, store_address FROM stores WHERE store_id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Store{}, fmt.Errorf("store %d: %w", id, domain.ErrStoreNotFound)
	}
	if err != nil {
		return domain.Store{}, err
	}
	return s, nil
}

func (r *StoreRepository) FindByName(ctx context.Context, name string) (domain.Store, error) {
	var s domain.Store
	err := r.pool.QueryRow(ctx, `
		SELECT store_id, store_name, store_address FROM stores WHERE store_name = $1
	`, name).Scan(&s.ID, &s.Name, &s.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Store{}, fmt.Errorf("store %q: %w", name, domain.ErrStoreNotFound)
	}
	if err != nil {
		return domain.Store{}, err
	}
	return s, nil
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT store_id, store_name, store_address FROM stores ORDER BY store_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *StoreRepository) Update(ctx context.Context, s domain.Store) (domain.Store, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE stores SET store_name = $2, store_address = $3 WHERE store_id = $1
	`, s.ID, s.Name, s.Address)
	if err != nil {
		return domain.Store{}, err
	}
	if ct.RowsAffected() == 0 {
		return domain.Store{}, fmt.Errorf("store %d: %w", s.ID, domain.ErrStoreNotFound)
	}
	return s, nil
}

func (r *StoreRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE store_id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("store %d: %w", id, domain.ErrStoreNotFound)
	}
	return nil
}
