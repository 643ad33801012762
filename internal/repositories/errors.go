package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrWalletNotFound          = errors.New("wallet not found")
	ErrBalanceNotFound         = errors.New("balance not found")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrFxRateNotFound          = errors.New("fx rate not found")
	ErrDuplicateKey            = errors.New("duplicate key")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrLockTimeout             = errors.New("lock wait timed out")
)

const (
	pgUniqueViolation   = "23505"
	pgLockNotAvailable  = "55P03"
	pgDeadlockDetected  = "40P01"
	pgQueryCanceled     = "57014"
	sqliteUniqueMessage = "UNIQUE constraint failed"
)

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateKey
		case pgLockNotAvailable, pgDeadlockDetected, pgQueryCanceled:
			return ErrLockTimeout
		}
	}
	if strings.Contains(err.Error(), sqliteUniqueMessage) {
		return ErrDuplicateKey
	}
	return err
}
