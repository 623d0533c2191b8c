package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/osse101/lootbox-api/internal/logger"
)

// MessageWriter is the part of *kafka.Writer the sink uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink forwards bus events to a Kafka topic as JSON, keyed by opening
// so every stage of one opening lands on the same partition.
type KafkaSink struct {
	writer MessageWriter
}

// NewKafkaWriter creates a writer for topic that waits for all in-sync
// replicas. Messages are hashed by key to pick a partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            KafkaMaxAttempts,
		BatchTimeout:           KafkaBatchTimeout,
		WriteTimeout:           KafkaWriteTimeout,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaSink creates a sink over writer
func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// Register subscribes the sink to every stage event type
func (s *KafkaSink) Register(bus Bus) {
	for _, t := range AllTypes() {
		bus.Subscribe(t, s.Handle)
	}
}

// Handle writes one event. A write error is returned so the publisher retries.
func (s *KafkaSink) Handle(ctx context.Context, evt Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextMarshalEvent, err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.OpeningID()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
			{Key: "version", Value: []byte(evt.Version)},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		logger.FromContext(ctx).Warn(LogMsgKafkaWriteFailed, "event_type", evt.Type, "error", err)
		return fmt.Errorf("%s: %w", ErrContextKafkaWrite, err)
	}

	logger.FromContext(ctx).Debug(LogMsgKafkaForwarded, "event_type", evt.Type)
	return nil
}

// Close flushes and closes the writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
