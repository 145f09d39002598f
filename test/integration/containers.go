// Package integration starts the service's backing stores in containers
// for tests that need real Postgres, Kafka and Redis.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Env struct {
	PostgresURL string
	KafkaAddr   string
	RedisAddr   string
}

// Start brings up the three backing stores and registers cleanup with the
// test. Tests that cannot reach a container runtime should call
// testing.Short upstream and skip.
func Start(t *testing.T) *Env {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("store"),
		tcpostgres.WithUsername("store"),
		tcpostgres.WithPassword("store"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		_ = pg.Terminate(ctx)
	})
	pgURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres url: %v", err)
	}

	kc, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.6.1",
		tckafka.WithClusterID("store-test"),
	)
	if err != nil {
		t.Fatalf("start kafka: %v", err)
	}
	t.Cleanup(func() {
		_ = kc.Terminate(ctx)
	})
	brokers, err := kc.Brokers(ctx)
	if err != nil || len(brokers) == 0 {
		t.Fatalf("kafka brokers: %v", err)
	}

	rc, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() {
		_ = rc.Terminate(ctx)
	})
	redisAddr, err := rc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis url: %v", err)
	}

	return &Env{
		PostgresURL: pgURL,
		KafkaAddr:   brokers[0],
		RedisAddr:   redisAddr,
	}
}
