package integration

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invapp "github.com/Fawry-Intern/store-api/internal/inventory/application"
	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
	invkafka "github.com/Fawry-Intern/store-api/internal/inventory/infrastructure/kafka"
	invpg "github.com/Fawry-Intern/store-api/internal/inventory/infrastructure/postgres"
	storepg "github.com/Fawry-Intern/store-api/internal/store/infrastructure/postgres"
	"github.com/Fawry-Intern/store-api/pkg/idempotency"
	"github.com/Fawry-Intern/store-api/pkg/outbox"
)

func seedStock(t *testing.T, pool *pgxpool.Pool, storeID, productID int64, qty int) {
	t.Helper()
	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		INSERT INTO stores (store_id, store_name) VALUES ($1, $2)
		ON CONFLICT (store_id) DO NOTHING
	`, storeID, "integration store")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO stock (product_id, store_id, stock_available_quantity) VALUES ($1, $2, $3)
		ON CONFLICT (store_id, product_id) DO UPDATE SET stock_available_quantity = EXCLUDED.stock_available_quantity
	`, productID, storeID, qty)
	require.NoError(t, err)
}

func stockQuantity(t *testing.T, pool *pgxpool.Pool, storeID, productID int64) int {
	t.Helper()
	var qty int
	err := pool.QueryRow(context.Background(), `
		SELECT stock_available_quantity FROM stock WHERE store_id = $1 AND product_id = $2
	`, storeID, productID).Scan(&qty)
	require.NoError(t, err)
	return qty
}

func TestSagaAgainstBackingStores(t *testing.T) {
	if testing.Short() {
		t.Skip("requires container runtime")
	}
	env := Start(t)
	ctx := context.Background()
	log := slog.Default()

	pool, err := pgxpool.New(ctx, env.PostgresURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, storepg.Migrate(ctx, pool))

	stock := invpg.NewStockLedger(log, pool)
	reservations := invpg.NewReservationLedger(log, pool)
	egress := invpg.NewOutboxEgress(log, pool)
	compensator := invapp.NewCompensator(log, reservations)
	saga := invapp.NewSagaCoordinator(log, stock, reservations, compensator, egress, "merchant@store.local")

	t.Run("success reserves and enqueues StoreUpdated", func(t *testing.T) {
		seedStock(t, pool, 1, 10, 8)

		saga.HandleOrderCreated(ctx, domain.OrderCreated{
			OrderID:       500,
			CustomerEmail: "c@example.com",
			OrderItems:    []domain.OrderItem{{StoreID: 1, ProductID: 10, Quantity: 3}},
		})

		assert.Equal(t, 5, stockQuantity(t, pool, 1, 10))

		var eventType string
		err := pool.QueryRow(ctx, `
			SELECT type FROM outbox WHERE aggregate_id = '500' AND status = 'pending'
		`).Scan(&eventType)
		require.NoError(t, err)
		assert.Equal(t, domain.EventTypeStoreUpdated, eventType)
	})

	t.Run("shortfall restores stock and enqueues OrderCanceled", func(t *testing.T) {
		seedStock(t, pool, 1, 10, 10)
		seedStock(t, pool, 1, 20, 2)
		// Another store carries product 10 too; compensation must not
		// touch its row.
		seedStock(t, pool, 2, 10, 7)

		saga.HandleOrderCreated(ctx, domain.OrderCreated{
			OrderID:       501,
			CustomerEmail: "c@example.com",
			OrderItems: []domain.OrderItem{
				{StoreID: 1, ProductID: 10, Quantity: 5},
				{StoreID: 1, ProductID: 20, Quantity: 3},
			},
		})

		assert.Equal(t, 10, stockQuantity(t, pool, 1, 10))
		assert.Equal(t, 2, stockQuantity(t, pool, 1, 20))
		assert.Equal(t, 7, stockQuantity(t, pool, 2, 10))

		var payload []byte
		err := pool.QueryRow(ctx, `
			SELECT payload FROM outbox WHERE aggregate_id = '501' AND type = $1
		`, domain.EventTypeOrderCanceled).Scan(&payload)
		require.NoError(t, err)

		var canceled domain.OrderCanceled
		require.NoError(t, json.Unmarshal(payload, &canceled))
		assert.Contains(t, canceled.Reason, "product 20")
	})

	t.Run("relay delivers outbox rows to kafka", func(t *testing.T) {
		writer := invkafka.NewStoreUpdatedWriter(env.KafkaAddr, "store-updated-events")
		t.Cleanup(func() { _ = writer.Close() })
		canceledWriter := invkafka.NewStoreEventsWriter(env.KafkaAddr, "store-events")
		t.Cleanup(func() { _ = canceledWriter.Close() })

		dispatcher := outbox.NewDispatcher(log, map[string]outbox.Producer{
			domain.EventTypeStoreUpdated:  writer,
			domain.EventTypeOrderCanceled: canceledWriter,
		})
		relay := outbox.NewRelay(log, invpg.NewOutboxStore(log, pool), dispatcher, "integration-relay")

		relayCtx, stop := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = relay.Run(relayCtx)
		}()

		reader := segkafka.NewReader(segkafka.ReaderConfig{
			Brokers: []string{env.KafkaAddr},
			Topic:   "store-updated-events",
			GroupID: "integration-check",
		})
		t.Cleanup(func() { _ = reader.Close() })

		readCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		msg, err := reader.FetchMessage(readCtx)
		stop()
		<-done
		require.NoError(t, err)
		assert.Equal(t, "500", string(msg.Key))
	})

	t.Run("idempotency store dedupes offsets", func(t *testing.T) {
		addr := strings.TrimPrefix(env.RedisAddr, "redis://")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { _ = rdb.Close() })

		idem := idempotency.NewStore(rdb, time.Minute)
		key := idem.Key("order-events", 0, 7)

		seen, err := idem.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, seen)

		require.NoError(t, idem.Mark(ctx, key))

		seen, err = idem.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, seen)
	})
}
