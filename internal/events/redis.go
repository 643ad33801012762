package events

import (
	"context"
	"encoding/json"
	"fmt"

	"fxwallet/internal/logger"
	"fxwallet/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher fans events out over Redis pub/sub.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, channel string, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger.OrNop(log).Named("events.redis")}
}

func (p *RedisPublisher) Publish(ctx context.Context, txs ...models.Transaction) error {
	for _, tx := range txs {
		payload, err := json.Marshal(NewTransactionEvent(tx))
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}
		p.logger.Debug("published transaction event",
			zap.String("transaction_id", tx.ID.String()),
			zap.String("type", string(tx.Type)))
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (p *RedisPublisher) Close() error {
	return nil
}
