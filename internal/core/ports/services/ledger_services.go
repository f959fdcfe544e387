package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/pagination"
)

// LedgerQuerySvc defines the read-side projections over ledger entries.
type LedgerQuerySvc interface {
	// GetEntry retrieves a single ledger entry by ID.
	GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListAccountEntries lists entries touching the account. A nil page returns all entries.
	ListAccountEntries(ctx context.Context, accountNumber string, page *pagination.PageRequest) (*domain.EntryPage, error)

	// ListEntriesByDateRange lists entries dated within [start, end].
	ListEntriesByDateRange(ctx context.Context, start time.Time, end time.Time) ([]domain.LedgerEntry, error)
}
