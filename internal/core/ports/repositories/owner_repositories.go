package repositories

import "context"

// OwnerReader resolves owner references for provisioning.
type OwnerReader interface {
	// OwnerExists reports whether ownerID resolves to a known owner.
	OwnerExists(ctx context.Context, ownerID string) (bool, error)
}
