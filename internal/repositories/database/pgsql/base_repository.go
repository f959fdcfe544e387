package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool        *pgxpool.Pool
	LockTimeout time.Duration
}

// pgTx adapts pgx.Tx to the repository Tx port.
type pgTx struct {
	pgx.Tx
}

// Commit commits the transaction, translating serialization failures.
func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.Tx.Commit(ctx); err != nil {
		return translateError(ctx, err, "commit transaction")
	}
	return nil
}

// Rollback rolls the transaction back. Rolling back a finished transaction is a no-op.
func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.Tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return translateError(ctx, err, "rollback transaction")
	}
	return nil
}

// Begin starts a new database transaction with the configured lock_timeout applied to it.
func (r *BaseRepository) Begin(ctx context.Context) (portsrepo.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, translateError(ctx, err, "begin transaction")
	}

	if r.LockTimeout > 0 {
		// SET does not accept bind parameters; the value is an integer we format ourselves.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.LockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, translateError(ctx, err, "set lock_timeout")
		}
	}
	return &pgTx{Tx: tx}, nil
}

// unwrap returns the pgx transaction behind a port Tx.
func unwrap(tx portsrepo.Tx) (pgx.Tx, error) {
	ptx, ok := tx.(*pgTx)
	if !ok || ptx == nil {
		return nil, fmt.Errorf("%w: transaction was not started by the postgres repository", apperrors.ErrInternal)
	}
	return ptx.Tx, nil
}
