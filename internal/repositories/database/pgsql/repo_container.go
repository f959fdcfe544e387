package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository port to dbPool. lockTimeout is applied
// to each transaction with SET LOCAL lock_timeout.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	ownerRepo := newPgxOwnerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:   &BaseRepository{Pool: dbPool, LockTimeout: lockTimeout},
		AccountRepo: accountRepo,
		LedgerRepo:  ledgerRepo,
		OwnerRepo:   ownerRepo,
	}
}
