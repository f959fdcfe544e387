package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_transfer_engine/internal/models"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, seq, source_account_number, target_account_number, amount, entry_type, status, description, transaction_date`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveEntryInTx appends a ledger entry within tx. seq is assigned by the database.
func (r *PgxLedgerRepository) SaveEntryInTx(ctx context.Context, tx portsrepo.Tx, entry domain.LedgerEntry) error {
	pgxTx, err := unwrap(tx)
	if err != nil {
		return err
	}
	if !entry.Status.IsTerminal() {
		return fmt.Errorf("%w: ledger entry %s saved in state %s", apperrors.ErrInternal, entry.EntryID, entry.Status)
	}

	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (entry_id, source_account_number, target_account_number, amount, entry_type, status, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = pgxTx.Exec(ctx, query,
		m.EntryID,
		m.SourceAccountNumber,
		m.TargetAccountNumber,
		m.Amount,
		m.EntryType,
		m.Status,
		m.Description,
		m.TransactionDate,
	)
	if err != nil {
		return translateError(ctx, err, fmt.Sprintf("save ledger entry %s", m.EntryID))
	}
	return nil
}

// FindEntryByID retrieves a single ledger entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE entry_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, translateError(ctx, err, "find ledger entry")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrEntryNotFound, entryID)
		}
		return nil, translateError(ctx, err, "find ledger entry")
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// ListEntriesByAccount lists entries where the account is source or target, in insertion order.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.LedgerEntry, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative (got %d)", apperrors.ErrValidation, offset)
	}
	// LIMIT NULL is LIMIT ALL in Postgres.
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}

	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE source_account_number = $1 OR target_account_number = $1
		ORDER BY seq ASC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountNumber, limitArg, offset)
	if err != nil {
		return nil, translateError(ctx, err, "list ledger entries by account")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, translateError(ctx, err, "scan ledger entries")
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

// CountEntriesByAccount counts entries where the account is source or target.
func (r *PgxLedgerRepository) CountEntriesByAccount(ctx context.Context, accountNumber string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM ledger_entries
		WHERE source_account_number = $1 OR target_account_number = $1;
	`
	var total int
	if err := r.Pool.QueryRow(ctx, query, accountNumber).Scan(&total); err != nil {
		return 0, translateError(ctx, err, "count ledger entries by account")
	}
	return total, nil
}

// ListEntriesByDateRange lists entries dated within [start, end], in insertion order.
func (r *PgxLedgerRepository) ListEntriesByDateRange(ctx context.Context, start time.Time, end time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE transaction_date BETWEEN $1 AND $2
		ORDER BY seq ASC;
	`
	rows, err := r.Pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, translateError(ctx, err, "list ledger entries by date range")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, translateError(ctx, err, "scan ledger entries")
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}
