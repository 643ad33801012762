package ledger

import (
	"context"
	"errors"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/models"
	"fxwallet/internal/repositories"

	"github.com/google/uuid"
)

// findExisting returns the transaction already recorded under (userID, key), or nil.
func (s *service) findExisting(ctx context.Context, userID uuid.UUID, key string) (*models.Transaction, error) {
	tx, err := s.repo.FindTransactionByIdempotencyKey(ctx, userID, key)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}
	return tx, nil
}

// recoverDuplicate resolves a unique violation on commit. When a concurrent
// submission of the same key won, its record is returned. Otherwise the key
// collided with an unrelated record and the caller must pick a new key.
func (s *service) recoverDuplicate(ctx context.Context, userID uuid.UUID, key string) (*models.Transaction, error) {
	winner, err := s.findExisting(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, apperrors.ErrIdempotencyConflict.WithMessage("idempotency key %q conflicts with an existing record", key)
	}
	return winner, nil
}

// reload re-reads a freshly committed record so the first response matches
// every later replay exactly. The in-memory copy is used if the read fails.
func (s *service) reload(ctx context.Context, tx *models.Transaction) *models.Transaction {
	stored, err := s.findExisting(ctx, tx.UserID, tx.IdempotencyKey)
	if err != nil || stored == nil {
		return tx
	}
	return stored
}
