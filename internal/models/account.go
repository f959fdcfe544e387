package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the account_type column.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID     string          `db:"account_id"`
	AccountNumber string          `db:"account_number"`
	AccountType   AccountType     `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	OwnerID       string          `db:"owner_id"`
	AuditFields
}
