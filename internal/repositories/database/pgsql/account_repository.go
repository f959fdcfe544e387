package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_transfer_engine/internal/models"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, account_number, account_type, balance, owner_id, created_at, updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.AccountNumber,
		modelAcc.AccountType,
		modelAcc.Balance,
		modelAcc.OwnerID,
		modelAcc.CreatedAt,
		modelAcc.UpdatedAt,
	)
	if err != nil {
		return translateError(ctx, err, fmt.Sprintf("save account %s", modelAcc.AccountNumber))
	}
	return nil
}

// FindAccountByNumber retrieves the committed state of an account.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_number = $1;
	`
	return r.queryOneAccount(ctx, r.Pool, query, accountNumber)
}

// AccountNumberExists reports whether accountNumber is already assigned.
func (r *PgxAccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1);`, accountNumber).Scan(&exists)
	if err != nil {
		return false, translateError(ctx, err, "check account number")
	}
	return exists, nil
}

// ListAccountsByOwner retrieves every account of an owner, oldest first.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_id = $1
		ORDER BY created_at ASC, account_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, translateError(ctx, err, "list accounts by owner")
	}
	modelAccs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(ctx, err, "scan accounts")
	}
	return mapping.ToDomainAccountSlice(modelAccs), nil
}

// FindAccountsByNumbersForUpdate locks each account row with SELECT ... FOR UPDATE.
// Rows are locked one at a time in ascending account number order so that two
// transfers over the same pair always queue on the same first row.
func (r *PgxAccountRepository) FindAccountsByNumbersForUpdate(ctx context.Context, tx portsrepo.Tx, accountNumbers []string) (map[string]domain.Account, error) {
	pgxTx, err := unwrap(tx)
	if err != nil {
		return nil, err
	}

	ordered := make([]string, 0, len(accountNumbers))
	seen := make(map[string]struct{}, len(accountNumbers))
	for _, n := range accountNumbers {
		if _, dup := seen[n]; !dup {
			seen[n] = struct{}{}
			ordered = append(ordered, n)
		}
	}
	sort.Strings(ordered)

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_number = $1
		FOR UPDATE;
	`
	accounts := make(map[string]domain.Account, len(ordered))
	for _, number := range ordered {
		acc, err := r.queryOneAccount(ctx, pgxTx, query, number)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				slog.WarnContext(ctx, "Account requested for update not found", slog.String("account_number", number))
			}
			return nil, err
		}
		accounts[number] = *acc
	}
	return accounts, nil
}

// UpdateAccountBalanceInTx writes the account's balance and updated_at within tx.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx portsrepo.Tx, account domain.Account) error {
	pgxTx, err := unwrap(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE account_number = $3;
	`
	tag, err := pgxTx.Exec(ctx, query, account.Balance, account.UpdatedAt, account.AccountNumber)
	if err != nil {
		return translateError(ctx, err, fmt.Sprintf("update balance of %s", account.AccountNumber))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, account.AccountNumber)
	}
	return nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxAccountRepository) queryOneAccount(ctx context.Context, q querier, query string, accountNumber string) (*domain.Account, error) {
	rows, err := q.Query(ctx, query, accountNumber)
	if err != nil {
		return nil, translateError(ctx, err, fmt.Sprintf("find account %s", accountNumber))
	}
	modelAcc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountNumber)
		}
		return nil, translateError(ctx, err, fmt.Sprintf("find account %s", accountNumber))
	}
	acc := mapping.ToDomainAccount(modelAcc)
	return &acc, nil
}
