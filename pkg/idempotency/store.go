package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers consumed message coordinates so that a redelivered
// message (same topic/partition/offset) is skipped instead of reprocessed.
// A key is marked only after the message has been fully handled, so a crash
// mid-processing leaves the key absent and the redelivery is processed
// again. Entries expire after the configured TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Key(topic string, partition int, offset int64) string {
	return fmt.Sprintf("store-api:idem:%s:%d:%d", topic, partition, offset)
}

// Exists reports whether the key was marked by a previous delivery.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mark records the key once processing finished.
func (s *Store) Mark(ctx context.Context, key string) error {
	return s.rdb.Set(ctx, key, "1", s.ttl).Err()
}
