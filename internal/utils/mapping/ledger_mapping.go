package mapping

import (
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/SscSPs/ledger_transfer_engine/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry. Seq is assigned by the store.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:             d.EntryID,
		SourceAccountNumber: d.SourceAccountNumber,
		TargetAccountNumber: d.TargetAccountNumber,
		Amount:              d.Amount,
		EntryType:           string(d.EntryType),
		Status:              string(d.Status),
		Description:         d.Description,
		TransactionDate:     d.TransactionDate,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:             m.EntryID,
		SourceAccountNumber: m.SourceAccountNumber,
		TargetAccountNumber: m.TargetAccountNumber,
		Amount:              m.Amount,
		EntryType:           domain.EntryType(m.EntryType),
		Status:              domain.EntryStatus(m.Status),
		Description:         m.Description,
		TransactionDate:     m.TransactionDate,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model entries to domain entries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
