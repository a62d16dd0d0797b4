package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ridehail/internal/core/ports"
)

const writeTimeout = 2 * time.Second

// KafkaSink publishes order snapshots to a Kafka topic, keyed by order
// id so all events of one order land in the same partition in order.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink creates a sink writing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})

	return &KafkaSink{writer: writer}
}

// Emit implements ports.NotificationSink.
func (s *KafkaSink) Emit(ctx context.Context, snapshot ports.OrderSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(snapshot.OrderID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish order %s snapshot: %w", snapshot.OrderID, err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Close()
}
