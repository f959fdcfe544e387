package services

import (
	"context"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferSvc moves value between two accounts as one atomic unit.
type TransferSvc interface {
	// Transfer debits source and credits target by amount and returns the COMPLETED entry.
	Transfer(ctx context.Context, sourceAccountNumber string, targetAccountNumber string, amount decimal.Decimal, description string) (*domain.LedgerEntry, error)
}
