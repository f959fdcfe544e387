package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOwnerRepository struct {
	db *pgxpool.Pool
}

func newPgxOwnerRepository(db *pgxpool.Pool) *PgxOwnerRepository {
	return &PgxOwnerRepository{db: db}
}

var _ portsrepo.OwnerReader = (*PgxOwnerRepository)(nil)

// OwnerExists reports whether ownerID has a row in owners.
func (r *PgxOwnerRepository) OwnerExists(ctx context.Context, ownerID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM owners WHERE owner_id = $1);`, ownerID).Scan(&exists)
	if err != nil {
		return false, translateError(ctx, err, "check owner")
	}
	return exists, nil
}
