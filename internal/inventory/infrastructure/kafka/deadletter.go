package kafka

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/Fawry-Intern/store-api/pkg/outbox"
)

// DeadLetter parks messages that can never be processed, preserving the
// original payload and recording where it came from and why it failed.
type DeadLetter struct {
	log    *slog.Logger
	writer outbox.Producer
}

func NewDeadLetter(log *slog.Logger, writer outbox.Producer) *DeadLetter {
	return &DeadLetter{log: log, writer: writer}
}

func (d *DeadLetter) Park(ctx context.Context, msg kafka.Message, reason string) {
	parked := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers,
			kafka.Header{Key: "dlq_reason", Value: []byte(reason)},
			kafka.Header{Key: "dlq_original_topic", Value: []byte(msg.Topic)},
		),
	}
	if err := d.writer.WriteMessages(ctx, parked); err != nil {
		d.log.Error("dead letter write failed",
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
		return
	}
	d.log.Warn("message dead-lettered",
		"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "reason", reason)
}
