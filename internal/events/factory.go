package events

import (
	"fmt"

	"fxwallet/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New picks the publisher named by cfg.Driver: kafka, redis or none.
func New(cfg config.EventsConfig, rdb *redis.Client, log *zap.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("kafka events need at least one broker")
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis events need a redis client")
		}
		return NewRedisPublisher(rdb, cfg.RedisChannel, log), nil
	case "", "none":
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
