package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
)

// LedgerReader defines read operations over ledger entries.
type LedgerReader interface {
	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves entries where the account is source or target,
	// in insertion order. A non-positive limit returns every entry from offset on.
	ListEntriesByAccount(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.LedgerEntry, error)

	// CountEntriesByAccount counts entries where the account is source or target.
	CountEntriesByAccount(ctx context.Context, accountNumber string) (int, error)

	// ListEntriesByDateRange retrieves entries with start <= transactionDate <= end, in insertion order.
	ListEntriesByDateRange(ctx context.Context, start time.Time, end time.Time) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines write operations over ledger entries.
type LedgerWriter interface {
	// SaveEntryInTx appends entry within tx.
	SaveEntryInTx(ctx context.Context, tx Tx, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
