// Package memory is an in-process implementation of the ledger repository ports.
//
// Each account is guarded by a weighted semaphore of size one, which plays the role
// of a row lock: it is acquired by FindAccountsByNumbersForUpdate and held until the
// unit commits or rolls back. Writes made through a unit are staged and applied to
// the committed state only on Commit, so readers never observe an in-flight transfer.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_transfer_engine/internal/models"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/mapping"
	"golang.org/x/sync/semaphore"
)

// Store holds committed accounts, ledger entries and owners.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]models.Account // keyed by account number
	accountOrder []string
	entries      []models.LedgerEntry
	entryIndex   map[string]int
	owners       map[string]domain.Owner
	seq          int64

	locksMu     sync.Mutex
	locks       map[string]*semaphore.Weighted
	lockTimeout time.Duration
}

// NewStore creates an empty store. lockTimeout bounds how long a unit waits for an account lock.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:    make(map[string]models.Account),
		entryIndex:  make(map[string]int),
		owners:      make(map[string]domain.Owner),
		locks:       make(map[string]*semaphore.Weighted),
		lockTimeout: lockTimeout,
	}
}

var (
	_ portsrepo.TransactionManager      = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*Store)(nil)
	_ portsrepo.OwnerReader             = (*Store)(nil)
)

// NewRepositoryProvider exposes store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:   store,
		AccountRepo: store,
		LedgerRepo:  store,
		OwnerRepo:   store,
	}
}

// RegisterOwner makes ownerID resolvable by OwnerExists.
func (s *Store) RegisterOwner(owner domain.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[owner.OwnerID] = owner
}

// OwnerExists reports whether ownerID was registered.
func (s *Store) OwnerExists(_ context.Context, ownerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.owners[ownerID]
	return ok, nil
}

// Begin starts a new unit.
func (s *Store) Begin(_ context.Context) (portsrepo.Tx, error) {
	return &memTx{
		store:    s,
		held:     make(map[string]struct{}),
		balances: make(map[string]models.Account),
	}, nil
}

func (s *Store) lockFor(accountNumber string) *semaphore.Weighted {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	sem, ok := s.locks[accountNumber]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.locks[accountNumber] = sem
	}
	return sem
}

func (s *Store) acquire(ctx context.Context, accountNumber string) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	if err := s.lockFor(accountNumber).Acquire(lockCtx, 1); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		return fmt.Errorf("%w: account %s not locked within %s", apperrors.ErrTimeout, accountNumber, s.lockTimeout)
	}
	return nil
}

func (s *Store) release(accountNumber string) {
	s.lockFor(accountNumber).Release(1)
}

// SaveAccount persists a new account.
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountNumber]; exists {
		return fmt.Errorf("%w: account number %s already exists", apperrors.ErrConflict, account.AccountNumber)
	}
	for _, existing := range s.accounts {
		if existing.AccountID == account.AccountID {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrConflict, account.AccountID)
		}
	}
	s.accounts[account.AccountNumber] = mapping.ToModelAccount(account)
	s.accountOrder = append(s.accountOrder, account.AccountNumber)
	return nil
}

// FindAccountByNumber returns the committed state of an account.
func (s *Store) FindAccountByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.accounts[accountNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountNumber)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// AccountNumberExists reports whether accountNumber is taken.
func (s *Store) AccountNumberExists(_ context.Context, accountNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[accountNumber]
	return ok, nil
}

// ListAccountsByOwner returns the owner's accounts in creation order.
func (s *Store) ListAccountsByOwner(_ context.Context, ownerID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Account{}
	for _, number := range s.accountOrder {
		if m := s.accounts[number]; m.OwnerID == ownerID {
			out = append(out, mapping.ToDomainAccount(m))
		}
	}
	return out, nil
}

// FindAccountsByNumbersForUpdate locks the accounts in ascending number order and returns them.
func (s *Store) FindAccountsByNumbersForUpdate(ctx context.Context, tx portsrepo.Tx, accountNumbers []string) (map[string]domain.Account, error) {
	mtx, err := s.unwrap(tx)
	if err != nil {
		return nil, err
	}

	ordered := uniqueSorted(accountNumbers)
	result := make(map[string]domain.Account, len(ordered))
	for _, number := range ordered {
		if _, ok := mtx.held[number]; !ok {
			if exists, _ := s.AccountNumberExists(ctx, number); !exists {
				slog.WarnContext(ctx, "Account requested for update not found", slog.String("account_number", number))
				return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, number)
			}
			if err := s.acquire(ctx, number); err != nil {
				return nil, err
			}
			mtx.held[number] = struct{}{}
		}

		if staged, ok := mtx.balances[number]; ok {
			result[number] = mapping.ToDomainAccount(staged)
			continue
		}
		acc, err := s.FindAccountByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		result[number] = *acc
	}
	return result, nil
}

// UpdateAccountBalanceInTx stages a balance change for an account locked by tx.
func (s *Store) UpdateAccountBalanceInTx(_ context.Context, tx portsrepo.Tx, account domain.Account) error {
	mtx, err := s.unwrap(tx)
	if err != nil {
		return err
	}
	if _, ok := mtx.held[account.AccountNumber]; !ok {
		return fmt.Errorf("%w: account %s updated without holding its lock", apperrors.ErrInternal, account.AccountNumber)
	}
	if account.Balance.IsNegative() {
		return fmt.Errorf("%w: balance of %s would become negative", apperrors.ErrInternal, account.AccountNumber)
	}
	mtx.balances[account.AccountNumber] = mapping.ToModelAccount(account)
	return nil
}

// SaveEntryInTx stages a ledger entry.
func (s *Store) SaveEntryInTx(_ context.Context, tx portsrepo.Tx, entry domain.LedgerEntry) error {
	mtx, err := s.unwrap(tx)
	if err != nil {
		return err
	}
	if !entry.Status.IsTerminal() {
		return fmt.Errorf("%w: ledger entry %s saved in state %s", apperrors.ErrInternal, entry.EntryID, entry.Status)
	}

	s.mu.RLock()
	_, exists := s.entryIndex[entry.EntryID]
	s.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: ledger entry %s already exists", apperrors.ErrConflict, entry.EntryID)
	}
	mtx.entries = append(mtx.entries, mapping.ToModelLedgerEntry(entry))
	return nil
}

// FindEntryByID returns a committed ledger entry.
func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.entryIndex[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEntryNotFound, entryID)
	}
	entry := mapping.ToDomainLedgerEntry(s.entries[idx])
	return &entry, nil
}

// ListEntriesByAccount returns entries touching the account in insertion order.
func (s *Store) ListEntriesByAccount(_ context.Context, accountNumber string, limit int, offset int) ([]domain.LedgerEntry, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative (got %d)", apperrors.ErrValidation, offset)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.LedgerEntry{}
	skipped := 0
	for _, m := range s.entries {
		if !mapping.ToDomainLedgerEntry(m).Involves(accountNumber) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, mapping.ToDomainLedgerEntry(m))
	}
	return out, nil
}

// CountEntriesByAccount counts entries touching the account.
func (s *Store) CountEntriesByAccount(_ context.Context, accountNumber string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.entries {
		if mapping.ToDomainLedgerEntry(m).Involves(accountNumber) {
			n++
		}
	}
	return n, nil
}

// ListEntriesByDateRange returns entries with start <= transactionDate <= end.
func (s *Store) ListEntriesByDateRange(_ context.Context, start time.Time, end time.Time) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.LedgerEntry{}
	for _, m := range s.entries {
		if m.TransactionDate.Before(start) || m.TransactionDate.After(end) {
			continue
		}
		out = append(out, mapping.ToDomainLedgerEntry(m))
	}
	return out, nil
}

func (s *Store) unwrap(tx portsrepo.Tx) (*memTx, error) {
	mtx, ok := tx.(*memTx)
	if !ok || mtx.store != s {
		return nil, fmt.Errorf("%w: transaction does not belong to this store", apperrors.ErrInternal)
	}
	if mtx.done {
		return nil, fmt.Errorf("%w: transaction already finished", apperrors.ErrInternal)
	}
	return mtx, nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// memTx is a unit of work over a Store.
type memTx struct {
	store    *Store
	held     map[string]struct{}
	balances map[string]models.Account
	entries  []models.LedgerEntry
	done     bool
}

// Commit applies the staged writes and releases every lock the unit holds.
func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return fmt.Errorf("%w: transaction already finished", apperrors.ErrInternal)
	}

	s := t.store
	s.mu.Lock()
	for number, staged := range t.balances {
		current := s.accounts[number]
		current.Balance = staged.Balance
		current.UpdatedAt = staged.UpdatedAt
		s.accounts[number] = current
	}
	for _, entry := range t.entries {
		s.seq++
		entry.Seq = s.seq
		s.entryIndex[entry.EntryID] = len(s.entries)
		s.entries = append(s.entries, entry)
	}
	s.mu.Unlock()

	t.finish()
	return nil
}

// Rollback discards the staged writes. It is a no-op after Commit.
func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *memTx) finish() {
	for number := range t.held {
		t.store.release(number)
	}
	t.held = nil
	t.balances = nil
	t.entries = nil
	t.done = true
}
