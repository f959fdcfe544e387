package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID             string          `db:"entry_id"`
	Seq                 int64           `db:"seq"` // Insertion order
	SourceAccountNumber string          `db:"source_account_number"`
	TargetAccountNumber string          `db:"target_account_number"`
	Amount              decimal.Decimal `db:"amount"`
	EntryType           string          `db:"entry_type"`
	Status              string          `db:"status"`
	Description         string          `db:"description"`
	TransactionDate     time.Time       `db:"transaction_date"`
}
