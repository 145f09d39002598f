package kafka

import (
	"github.com/segmentio/kafka-go"
)

// NewReader builds a group reader with explicit commit semantics: offsets
// advance only after the consumer decides the message's fate.
func NewReader(addr, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{addr},
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
