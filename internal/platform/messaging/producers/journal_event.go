// Package producers publishes journal lifecycle events to Kafka so
// downstream consumers (reporting caches, audit feeds) can follow the books
// without polling the database.
package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/bookkeeping-ledger/internal/config"
)

// JournalEventProducer publishes journal events keyed by transaction ID
type JournalEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewJournalEventProducer creates the producer and ensures the topic exists
func NewJournalEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*JournalEventProducer, error) {
	if cfg.JournalTopic == "" {
		return nil, fmt.Errorf("kafka journal topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for journal event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.JournalTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure journal topic %s exists: %w", cfg.JournalTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.JournalTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Event publishing is best-effort; the Postgres commit is the source of truth
		WriteTimeout: cfg.WriteTimeout,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write journal events asynchronously", "topic", cfg.JournalTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote journal events asynchronously", "topic", cfg.JournalTopic, "count", len(messages))
			}
		},
	}

	return &JournalEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.JournalTopic,
	}, nil
}

// Publish serializes the value as JSON and writes it to the journal topic
func (p *JournalEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal journal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish journal event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish journal event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published journal event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

// Close shuts down the underlying Kafka writer
func (p *JournalEventProducer) Close() error {
	p.logger.Info("Closing journal event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
