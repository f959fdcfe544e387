package services

import (
	"context"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount retrieves an account by its account number.
	GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListOwnerAccounts retrieves every account belonging to an owner.
	ListOwnerAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount provisions a zero-balance account with a freshly generated account number.
	CreateAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error)

	// SetBalance overwrites an account's balance. Administrative use only.
	SetBalance(ctx context.Context, accountNumber string, balance decimal.Decimal) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
