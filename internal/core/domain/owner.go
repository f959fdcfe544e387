package domain

import "time"

// Owner is the external party an account belongs to. Only its existence matters to the ledger.
type Owner struct {
	OwnerID   string    `json:"ownerID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
