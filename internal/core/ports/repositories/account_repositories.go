package repositories

import (
	"context"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByNumber retrieves the latest committed state of an account.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// AccountNumberExists reports whether accountNumber is already assigned.
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)

	// ListAccountsByOwner retrieves every account belonging to ownerID, oldest first.
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A taken account number yields apperrors.ErrConflict.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindAccountsByNumbersForUpdate loads accounts and holds an exclusive lock on each
	// until tx ends. Locks are taken in ascending account number order.
	FindAccountsByNumbersForUpdate(ctx context.Context, tx Tx, accountNumbers []string) (map[string]domain.Account, error)

	// UpdateAccountBalanceInTx stages the account's new balance and updatedAt within tx.
	UpdateAccountBalanceInTx(ctx context.Context, tx Tx, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
