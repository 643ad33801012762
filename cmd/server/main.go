// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxwallet/internal/config"
	"fxwallet/internal/events"
	"fxwallet/internal/handlers"
	"fxwallet/internal/logger"
	"fxwallet/internal/metrics"
	"fxwallet/internal/middleware"
	"fxwallet/internal/repositories"
	"fxwallet/internal/repositories/cache"
	"fxwallet/internal/routes"
	"fxwallet/internal/services/fx"
	"fxwallet/internal/services/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database and Redis connections
// - Wires the FX resolver and the ledger
// - Configures routes
// - Starts the HTTP server and drains it on SIGINT/SIGTERM
func main() {
	config.LoadEnv()
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	db, err := repositories.NewPostgres(cfg.Database, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			zlog.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repositories.Ping(pingCtx, db); err != nil {
		return err
	}
	zlog.Info("connected to database with connection pooling")

	rdb := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cacheService := cache.NewCacheService(rdb, cfg.Fx.CacheTTL)
	defer func() {
		if err := cacheService.Close(); err != nil {
			zlog.Warn("failed to close redis connection", zap.Error(err))
		}
	}()
	if err := cacheService.HealthCheck(pingCtx); err != nil {
		zlog.Warn("redis unavailable, fx rates will be served from the database", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	provider := fx.NewExchangeRateAPIProvider(fx.ProviderConfig{
		BaseURL:     cfg.Fx.APIBaseURL,
		APIKey:      cfg.Fx.APIKey,
		Timeout:     cfg.Fx.HTTPTimeout,
		MaxAttempts: cfg.Fx.MaxAttempts,
		BaseDelay:   cfg.Fx.RetryDelay,
	}, zlog, m)
	resolver := fx.NewResolver(
		cache.NewFxRateCache(cacheService),
		repositories.NewFxRateRepository(db),
		provider,
		fx.Config{
			RateValidity: cfg.Fx.RateValidity,
			LoadTimeout:  provider.RetryBudget(),
		},
		m,
		zlog,
	)

	publisher, err := events.New(cfg.Events, rdb, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zlog.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	ledgerService := ledger.NewService(
		repositories.NewWalletRepository(db, cfg.Database.LockTimeout),
		resolver,
		publisher,
		ledger.Config{},
		m,
		zlog,
	)

	stopStats := make(chan struct{})
	defer close(stopStats)
	go logPoolStats(db, zlog, stopStats)

	app := fiber.New(fiber.Config{
		AppName:               "fxwallet",
		DisableStartupMessage: config.IsProduction(),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + handlers.IdempotencyKeyHeader,
		AllowMethods: "GET,POST,HEAD,OPTIONS",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Ledger: ledgerService,
		Rates:  resolver,
		Auth:   middleware.NewAuthMiddleware(cfg.JWTSecret, zlog),
		HealthChecks: map[string]handlers.CheckFunc{
			"database": func(ctx context.Context) error { return repositories.Ping(ctx, db) },
			"redis":    cacheService.HealthCheck,
		},
		Registry:           registry,
		Observer:           m,
		MutationsPerMinute: cfg.RateLimitPerMinute,
	})

	listenErr := make(chan error, 1)
	go func() {
		zlog.Info("http server listening", zap.String("port", cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case sig := <-quit:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return app.ShutdownWithContext(ctx)
}

// logPoolStats periodically reports database connection pool usage.
func logPoolStats(db *gorm.DB, zlog *zap.Logger, stop <-chan struct{}) {
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Warn("failed to get database instance", zap.Error(err))
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			zlog.Debug("db pool stats",
				zap.Int("open", stats.OpenConnections),
				zap.Int("idle", stats.Idle),
				zap.Int("in_use", stats.InUse),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration),
			)
		}
	}
}
