// Command issue_token opens (or reuses) a wallet for a user and prints a
// bearer token for it. It is meant for local development and smoke tests.
//
// Environment:
//
//	TOKEN_USER_ID  user UUID; a random one is generated when empty
//	TOKEN_ROLE     role claim (default "user")
//	TOKEN_TTL      token lifetime (default 24h)
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fxwallet/internal/config"
	"fxwallet/internal/logger"
	"fxwallet/internal/models"
	"fxwallet/internal/repositories"
	"fxwallet/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	userID := uuid.New()
	if raw := config.GetEnv("TOKEN_USER_ID", ""); raw != "" {
		userID, err = uuid.Parse(raw)
		if err != nil {
			zlog.Fatal("TOKEN_USER_ID must be a UUID", zap.Error(err))
		}
	}

	db, err := repositories.NewPostgres(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer repositories.Close(db) //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := repositories.NewWalletRepository(db, cfg.Database.LockTimeout)
	wallet, err := repo.EnsureWallet(ctx, userID)
	if err != nil {
		zlog.Fatal("failed to open wallet", zap.Error(err))
	}
	if _, err := repo.GetOrCreateBalance(ctx, wallet.ID, models.CurrencyNGN); err != nil {
		zlog.Fatal("failed to open default balance", zap.Error(err))
	}

	token, err := utils.GenerateToken(
		cfg.JWTSecret,
		userID,
		config.GetEnv("TOKEN_ROLE", "user"),
		config.GetDurationEnv("TOKEN_TTL", 24*time.Hour),
	)
	if err != nil {
		zlog.Fatal("failed to sign token", zap.Error(err))
	}

	zlog.Info("wallet ready", zap.String("user_id", userID.String()), zap.String("wallet_id", wallet.ID.String()))
	fmt.Println(token)
}
