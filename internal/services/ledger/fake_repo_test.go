package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"fxwallet/internal/models"
	"fxwallet/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errLockOrder = errors.New("balances locked out of ascending order")

// fakeStore is an in-memory balance store with real row locks. Writes made in
// a unit of work are staged and applied atomically on success, with the
// (user_id, idempotency_key) uniqueness enforced at commit.
type fakeStore struct {
	mu       sync.Mutex
	wallets  map[uuid.UUID]*models.Wallet
	balances map[uuid.UUID]*models.WalletBalance
	rowLocks map[uuid.UUID]*sync.Mutex
	txs      []models.Transaction

	lockViolations int32
	units          int32

	// beforeLock runs at the start of every LockBalance call.
	beforeLock func(s *fakeStore)
	// beforeCommit runs after fn succeeds and before uniqueness is checked.
	beforeCommit func(s *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:  map[uuid.UUID]*models.Wallet{},
		balances: map[uuid.UUID]*models.WalletBalance{},
		rowLocks: map[uuid.UUID]*sync.Mutex{},
	}
}

func (s *fakeStore) repo() *fakeRepo {
	return &fakeRepo{store: s}
}

func (s *fakeStore) addWallet(status models.WalletStatus) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &models.Wallet{ID: uuid.New(), UserID: uuid.New(), Status: status}
	s.wallets[w.UserID] = w
	return w
}

func (s *fakeStore) setBalance(walletID uuid.UUID, currency models.Currency, amount string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.findBalanceLocked(walletID, currency)
	if b == nil {
		b = models.NewWalletBalance(walletID, currency)
		s.balances[b.ID] = b
		s.rowLocks[b.ID] = &sync.Mutex{}
	}
	b.Balance = decimal.RequireFromString(amount)
}

func (s *fakeStore) balanceOf(walletID uuid.UUID, currency models.Currency) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.findBalanceLocked(walletID, currency); b != nil {
		return b.Balance
	}
	return decimal.Zero
}

func (s *fakeStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

func (s *fakeStore) findBalanceLocked(walletID uuid.UUID, currency models.Currency) *models.WalletBalance {
	for _, b := range s.balances {
		if b.WalletID == walletID && b.Currency == currency {
			return b
		}
	}
	return nil
}

func (s *fakeStore) findTxLocked(userID uuid.UUID, key string) *models.Transaction {
	for i := range s.txs {
		if s.txs[i].UserID == userID && s.txs[i].IdempotencyKey == key {
			return &s.txs[i]
		}
	}
	return nil
}

type unitState struct {
	held     []uuid.UUID
	balances map[uuid.UUID]models.WalletBalance
	txs      []models.Transaction
}

type fakeRepo struct {
	store *fakeStore
	unit  *unitState
}

func (r *fakeRepo) GetWalletByUserID(_ context.Context, userID uuid.UUID) (*models.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeRepo) EnsureWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	r.store.mu.Lock()
	if _, ok := r.store.wallets[userID]; !ok {
		r.store.wallets[userID] = &models.Wallet{ID: uuid.New(), UserID: userID, Status: models.WalletStatusActive}
	}
	r.store.mu.Unlock()
	return r.GetWalletByUserID(ctx, userID)
}

func (r *fakeRepo) GetBalance(_ context.Context, walletID uuid.UUID, currency models.Currency) (*models.WalletBalance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b := r.store.findBalanceLocked(walletID, currency)
	if b == nil {
		return nil, repositories.ErrBalanceNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) GetOrCreateBalance(ctx context.Context, walletID uuid.UUID, currency models.Currency) (*models.WalletBalance, error) {
	r.store.mu.Lock()
	if r.store.findBalanceLocked(walletID, currency) == nil {
		b := models.NewWalletBalance(walletID, currency)
		r.store.balances[b.ID] = b
		r.store.rowLocks[b.ID] = &sync.Mutex{}
	}
	r.store.mu.Unlock()
	return r.GetBalance(ctx, walletID, currency)
}

func (r *fakeRepo) ListBalances(_ context.Context, walletID uuid.UUID) ([]models.WalletBalance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.WalletBalance
	for _, c := range models.SupportedCurrencies() {
		if b := r.store.findBalanceLocked(walletID, c); b != nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) LockBalance(_ context.Context, balanceID uuid.UUID) (*models.WalletBalance, error) {
	if r.unit == nil {
		return nil, errors.New("lock outside unit of work")
	}
	if r.store.beforeLock != nil {
		r.store.beforeLock(r.store)
	}
	if n := len(r.unit.held); n > 0 && bytes.Compare(r.unit.held[n-1][:], balanceID[:]) >= 0 {
		atomic.AddInt32(&r.store.lockViolations, 1)
		return nil, errLockOrder
	}

	r.store.mu.Lock()
	rowLock, ok := r.store.rowLocks[balanceID]
	r.store.mu.Unlock()
	if !ok {
		return nil, repositories.ErrBalanceNotFound
	}
	rowLock.Lock()
	r.unit.held = append(r.unit.held, balanceID)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *r.store.balances[balanceID]
	return &cp, nil
}

func (r *fakeRepo) UpdateBalance(_ context.Context, balance *models.WalletBalance) error {
	if r.unit == nil {
		return errors.New("update outside unit of work")
	}
	for _, id := range r.unit.held {
		if id == balance.ID {
			r.unit.balances[id] = *balance
			return nil
		}
	}
	return fmt.Errorf("balance %s updated without lock", balance.ID)
}

func (r *fakeRepo) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	if r.unit == nil {
		return errors.New("insert outside unit of work")
	}
	r.unit.txs = append(r.unit.txs, *tx)
	return nil
}

func (r *fakeRepo) FindTransactionByIdempotencyKey(_ context.Context, userID uuid.UUID, key string) (*models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tx := r.store.findTxLocked(userID, key)
	if tx == nil {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeRepo) ExecuteInTransaction(ctx context.Context, fn func(repositories.WalletRepository) error) error {
	atomic.AddInt32(&r.store.units, 1)
	unit := &unitState{balances: map[uuid.UUID]models.WalletBalance{}}
	defer func() {
		r.store.mu.Lock()
		locks := make([]*sync.Mutex, 0, len(unit.held))
		for _, id := range unit.held {
			locks = append(locks, r.store.rowLocks[id])
		}
		r.store.mu.Unlock()
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}()

	if err := fn(&fakeRepo{store: r.store, unit: unit}); err != nil {
		return err
	}
	if r.store.beforeCommit != nil {
		r.store.beforeCommit(r.store)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	seen := map[string]bool{}
	for _, tx := range unit.txs {
		k := tx.UserID.String() + "/" + tx.IdempotencyKey
		if seen[k] || r.store.findTxLocked(tx.UserID, tx.IdempotencyKey) != nil {
			return repositories.ErrDuplicateIdempotencyKey
		}
		seen[k] = true
	}
	for id, b := range unit.balances {
		cp := b
		r.store.balances[id] = &cp
	}
	r.store.txs = append(r.store.txs, unit.txs...)
	return nil
}
