package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCompleted is emitted once a transfer's atomic unit has committed.
type TransferCompleted struct {
	TransactionID       string          `json:"transactionId"`
	SourceAccountNumber string          `json:"sourceAccountNumber"`
	TargetAccountNumber string          `json:"targetAccountNumber"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description,omitempty"`
	OccurredAt          time.Time       `json:"occurredAt"`
}

// NewTransferCompleted derives the event from a committed entry.
func NewTransferCompleted(entry LedgerEntry) TransferCompleted {
	return TransferCompleted{
		TransactionID:       entry.EntryID,
		SourceAccountNumber: entry.SourceAccountNumber,
		TargetAccountNumber: entry.TargetAccountNumber,
		Amount:              entry.Amount,
		Description:         entry.Description,
		OccurredAt:          entry.TransactionDate,
	}
}
