package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the ledger reacts to.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

// translateError maps driver errors onto the apperrors taxonomy. ctx is the caller's
// context; a statement cancelled because ctx ended is not a lock timeout.
func translateError(ctx context.Context, err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeQueryCanceled:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%s: %w: %s", op, ctxErr, pgErr.Message)
			}
			return fmt.Errorf("%w: %s: %s", apperrors.ErrTimeout, op, pgErr.Message)
		case codeLockNotAvailable:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrTimeout, op, pgErr.Message)
		case codeDeadlockDetected, codeSerializationFailure:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDeadlock, op, pgErr.Message)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConflict, op, pgErr.Detail)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s: constraint %s violated", apperrors.ErrInternal, op, pgErr.ConstraintName)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrTimeout, op, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: failed to %s: %w", apperrors.ErrInternal, op, err)
}
