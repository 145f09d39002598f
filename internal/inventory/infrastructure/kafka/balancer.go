package kafka

import (
	"hash/fnv"

	"github.com/segmentio/kafka-go"
)

// OrderBalancer routes a message to a partition derived from its key with
// FNV-1a, so every instance sends the same order id to the same partition
// regardless of which partitions it has seen before. Keyless messages fall
// back to partition zero.
type OrderBalancer struct{}

func (OrderBalancer) Balance(msg kafka.Message, partitions ...int) int {
	if len(partitions) == 0 {
		return 0
	}
	if len(msg.Key) == 0 {
		return partitions[0]
	}
	h := fnv.New32a()
	_, _ = h.Write(msg.Key)
	return partitions[int(h.Sum32())%len(partitions)]
}
