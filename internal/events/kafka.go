package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fxwallet/internal/logger"
	"fxwallet/internal/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per transaction, keyed by wallet so every
// event of a wallet lands on the same partition in commit order.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	log = logger.OrNop(log).Named("events.kafka")
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Warn(fmt.Sprintf(msg, args...))
		}),
		Async:      true,
		Completion: completionLogger(log),
	}
	return &KafkaPublisher{writer: writer, logger: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, txs ...models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	msgs, err := buildMessages(txs)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write kafka messages: %w", err)
	}
	p.logger.Debug("published transaction events", zap.Int("count", len(msgs)))
	return nil
}

// completionLogger reports async batch failures, which WriteMessages no longer
// returns once the writer is asynchronous.
func completionLogger(log *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		log.Error("failed to deliver transaction events",
			zap.Int("count", len(msgs)),
			zap.Error(err),
		)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessages(txs []models.Transaction) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(txs))
	for _, tx := range txs {
		event := NewTransactionEvent(tx)
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.WalletID),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
				{Key: "transaction_type", Value: []byte(event.TransactionType)},
			},
			Time: event.Timestamp,
		})
	}
	return msgs, nil
}
