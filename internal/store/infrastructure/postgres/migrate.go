package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		store_id BIGSERIAL PRIMARY KEY,
		store_name TEXT NOT NULL UNIQUE,
		store_address TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS stock (
		stock_id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL,
		store_id BIGINT NOT NULL REFERENCES stores(store_id) ON DELETE CASCADE,
		stock_available_quantity INT NOT NULL CHECK (stock_available_quantity >= 0),
		stock_last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (store_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_reservation (
		id BIGSERIAL PRIMARY KEY,
		store_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		order_id BIGINT NOT NULL,
		reserved_quantity INT NOT NULL,
		status TEXT NOT NULL,
		reserve_inventory_last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_reservation_order
		ON inventory_reservation (order_id)`,
	`CREATE TABLE IF NOT EXISTS product_consumptions (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL,
		store_id BIGINT NOT NULL REFERENCES stores(store_id) ON DELETE CASCADE,
		product_name TEXT NOT NULL,
		product_price NUMERIC(12,2) NOT NULL,
		quantity INT NOT NULL,
		consumed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox (
		id BIGSERIAL PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		type TEXT NOT NULL,
		payload BYTEA NOT NULL,
		headers JSONB NOT NULL DEFAULT '{}',
		traceparent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		status TEXT NOT NULL DEFAULT 'pending',
		relay_id TEXT,
		lease_until TIMESTAMPTZ,
		retry_count INT NOT NULL DEFAULT 0,
		last_error TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_pending
		ON outbox (id) WHERE status = 'pending'`,
}

// Migrate applies the schema. Statements are idempotent, so running it on
// every boot is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
