package repositories

import (
	"context"
)

// Tx is an open atomic unit. Everything written through it becomes visible on
// Commit and is discarded on Rollback.
type Tx interface {
	// Commit makes the unit's writes durable and releases its locks.
	Commit(ctx context.Context) error

	// Rollback discards the unit's writes and releases its locks.
	// Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new atomic unit.
	Begin(ctx context.Context) (Tx, error)
}
