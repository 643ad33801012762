package ledger

import (
	"bytes"
	"context"
	"errors"
	"sort"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/models"
	"fxwallet/internal/repositories"
	"fxwallet/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// posting is one signed change to a balance. Negative amounts are debits.
type posting struct {
	balanceID uuid.UUID
	amount    decimal.Decimal
}

func debit(b *models.WalletBalance, amount decimal.Decimal) posting {
	return posting{balanceID: b.ID, amount: amount.Neg()}
}

func credit(b *models.WalletBalance, amount decimal.Decimal) posting {
	return posting{balanceID: b.ID, amount: amount}
}

// lockOrder returns the distinct balance IDs touched by postings in ascending order.
func lockOrder(postings []posting) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(postings))
	ids := make([]uuid.UUID, 0, len(postings))
	for _, p := range postings {
		if _, ok := seen[p.balanceID]; ok {
			continue
		}
		seen[p.balanceID] = struct{}{}
		ids = append(ids, p.balanceID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// commit locks every touched balance in ascending ID order, checks the
// primary record's idempotency key and funds under lock, applies the postings and inserts the records, all in one unit of
// work. It runs detached from ctx cancellation: once started it ends in commit
// or rollback.
func (s *service) commit(ctx context.Context, postings []posting, records ...*models.Transaction) error {
	ctx = context.WithoutCancel(ctx)
	now := s.config.Now()
	for _, r := range records {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.Status = models.TransactionStatusCompleted
		r.CompletedAt = &now
	}

	err := s.repo.ExecuteInTransaction(ctx, func(repo repositories.WalletRepository) error {
		locked := make(map[uuid.UUID]*models.WalletBalance, len(postings))
		order := lockOrder(postings)
		for _, id := range order {
			b, err := repo.LockBalance(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = b
		}

		// A same-key request that committed while this one waited for the
		// locks wins; the caller replays its record.
		primary := records[0]
		if _, err := repo.FindTransactionByIdempotencyKey(ctx, primary.UserID, primary.IdempotencyKey); err == nil {
			return repositories.ErrDuplicateIdempotencyKey
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}

		for _, p := range postings {
			b := locked[p.balanceID]
			if p.amount.IsNegative() {
				amount := p.amount.Neg()
				if !CanDebit(b.Balance, amount) {
					return apperrors.ErrInsufficientBalance.WithMessage(
						"insufficient %s balance: have %s, need %s", b.Currency, b.Balance, amount)
				}
				b.Balance = Debit(b.Balance, amount)
			} else {
				next := Credit(b.Balance, p.amount)
				if !validation.WithinAmountDigits(next) {
					return apperrors.ErrInvalidAmount.WithMessage(
						"resulting %s balance %s exceeds the maximum", b.Currency, next)
				}
				b.Balance = next
			}
		}

		for _, id := range order {
			if err := repo.UpdateBalance(ctx, locked[id]); err != nil {
				return err
			}
		}
		for _, r := range records {
			if err := repo.CreateTransaction(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrDuplicateIdempotencyKey) {
		return err
	}
	return mapRepoError(err)
}
