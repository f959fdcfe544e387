package domain

import "time"

// AuditFields holds the timestamps every persisted ledger record carries.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Touch stamps the record as mutated at now.
func (a *AuditFields) Touch(now time.Time) {
	a.UpdatedAt = now
}
