package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryType classifies the value movement recorded by a ledger entry.
type EntryType string

const (
	Transfer   EntryType = "TRANSFER"
	Deposit    EntryType = "DEPOSIT"
	Withdrawal EntryType = "WITHDRAWAL"
)

// EntryStatus is the lifecycle state of a ledger entry.
//
// The synchronous transfer path only ever moves PENDING -> COMPLETED inside its
// atomic unit. FAILED and CANCELLED are reserved for compensating flows; they are
// reachable from PENDING only and nothing in this service produces them yet.
type EntryStatus string

const (
	Pending   EntryStatus = "PENDING"
	Completed EntryStatus = "COMPLETED"
	Failed    EntryStatus = "FAILED"
	Cancelled EntryStatus = "CANCELLED"
)

var entryTransitions = map[EntryStatus][]EntryStatus{
	Pending: {Completed, Failed, Cancelled},
}

// IsTerminal reports whether no further transition is allowed from s.
func (s EntryStatus) IsTerminal() bool {
	return len(entryTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	for _, allowed := range entryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LedgerEntry is a durable record of one value movement between two accounts.
type LedgerEntry struct {
	EntryID             string          `json:"entryID"` // Primary Key (UUID)
	SourceAccountNumber string          `json:"sourceAccountNumber"`
	TargetAccountNumber string          `json:"targetAccountNumber"`
	Amount              decimal.Decimal `json:"amount"` // Always positive
	EntryType           EntryType       `json:"entryType"`
	Status              EntryStatus     `json:"status"`
	Description         string          `json:"description"`
	TransactionDate     time.Time       `json:"transactionDate"`
}

// NewTransferEntry builds a PENDING transfer entry.
func NewTransferEntry(id, source, target string, amount decimal.Decimal, description string, now time.Time) LedgerEntry {
	return LedgerEntry{
		EntryID:             id,
		SourceAccountNumber: source,
		TargetAccountNumber: target,
		Amount:              amount,
		EntryType:           Transfer,
		Status:              Pending,
		Description:         description,
		TransactionDate:     now,
	}
}

// TransitionTo moves the entry to next, rejecting illegal lifecycle steps.
func (e *LedgerEntry) TransitionTo(next EntryStatus) error {
	if !e.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: entry %s cannot move from %s to %s", apperrors.ErrInternal, e.EntryID, e.Status, next)
	}
	e.Status = next
	return nil
}

// Involves reports whether accountNumber is the source or the target of the entry.
func (e LedgerEntry) Involves(accountNumber string) bool {
	return e.SourceAccountNumber == accountNumber || e.TargetAccountNumber == accountNumber
}
