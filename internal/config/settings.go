package config

import (
	"fmt"
	"time"
)

// DatabaseConfig holds the postgres DSN parts and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LockTimeout     time.Duration
}

// DSN renders the key/value connection string understood by pgx.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type FxConfig struct {
	APIBaseURL   string
	APIKey       string
	HTTPTimeout  time.Duration
	RateValidity time.Duration
	CacheTTL     time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
}

type EventsConfig struct {
	Driver       string
	KafkaBrokers []string
	KafkaTopic   string
	RedisChannel string
}

// Config is the full process configuration, read once at startup.
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	JWTSecret string

	// RateLimitPerMinute caps money movement requests per caller; 0 disables it.
	RateLimitPerMinute int

	Database DatabaseConfig
	Redis    RedisConfig
	Fx       FxConfig
	Events   EventsConfig
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:      GetEnv("PORT", "3000"),
		Env:       GetEnv("ENV", "development"),
		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		JWTSecret: GetEnv("JWT_SECRET", "your-secret-key"),

		RateLimitPerMinute: GetIntEnv("RATE_LIMIT_MUTATIONS_PER_MINUTE", 60),
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "fxwallet"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
			LockTimeout:     GetDurationEnv("DB_LOCK_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		Fx: FxConfig{
			APIBaseURL:   GetEnv("FX_API_BASE_URL", "https://v6.exchangerate-api.com/v6"),
			APIKey:       GetEnv("EXCHANGE_RATE_API_KEY", ""),
			HTTPTimeout:  GetDurationEnv("FX_HTTP_TIMEOUT", 10*time.Second),
			RateValidity: GetDurationEnv("FX_RATE_VALIDITY", 5*time.Minute),
			CacheTTL:     GetDurationEnv("FX_CACHE_TTL", 60*time.Second),
			MaxAttempts:  GetIntEnv("FX_MAX_ATTEMPTS", 3),
			RetryDelay:   GetDurationEnv("FX_RETRY_BASE_DELAY", 500*time.Millisecond),
		},
		Events: EventsConfig{
			Driver:       GetEnv("EVENTS_DRIVER", "none"),
			KafkaBrokers: GetListEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			KafkaTopic:   GetEnv("KAFKA_TOPIC", "wallet.transactions"),
			RedisChannel: GetEnv("REDIS_EVENTS_CHANNEL", "wallet:transactions"),
		},
	}
}
