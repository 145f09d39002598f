package kafka

import (
	"github.com/segmentio/kafka-go"
)

// NewStoreUpdatedWriter produces completion events. Placement must be
// deterministic per order, hence the key-hash balancer and full acks.
func NewStoreUpdatedWriter(addr, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(addr),
		Topic:                  topic,
		Balancer:               OrderBalancer{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// NewStoreEventsWriter produces cancellation acknowledgements. Ordering is
// not significant for these, so the broker default distribution applies.
func NewStoreEventsWriter(addr, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(addr),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// NewDeadLetterWriter produces parked messages that failed validation.
func NewDeadLetterWriter(addr, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(addr),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}
