package dto

import (
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest moves Amount from SourceAccountNumber to TargetAccountNumber.
type TransferRequest struct {
	SourceAccountNumber string           `json:"sourceAccountNumber" binding:"required,accountnumber" example:"0000000001"`
	TargetAccountNumber string           `json:"targetAccountNumber" binding:"required,accountnumber" example:"0000000002"`
	Amount              *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"30.00"`
	Description         string           `json:"description" binding:"max=255" example:"rent"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	ID                  string             `json:"id"`
	SourceAccountNumber string             `json:"sourceAccountNumber"`
	TargetAccountNumber string             `json:"targetAccountNumber"`
	Amount              string             `json:"amount" example:"30.00"`
	Type                domain.EntryType   `json:"type"`
	Status              domain.EntryStatus `json:"status"`
	Description         string             `json:"description"`
	TransactionDate     time.Time          `json:"transactionDate"`
}

// ListEntriesParams are the optional paging query parameters for an account's entries.
// When both are absent the full history is returned.
type ListEntriesParams struct {
	Page     *int `form:"page" binding:"omitempty,min=0"`
	PageSize *int `form:"pageSize" binding:"omitempty,min=1"`
}

// Paged reports whether the caller asked for a page.
func (p ListEntriesParams) Paged() bool {
	return p.Page != nil || p.PageSize != nil
}

// ListEntriesResponse is one page of an account's entries.
type ListEntriesResponse struct {
	Entries  []LedgerEntryResponse `json:"entries"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Total    int                   `json:"total"`
}

// DateRangeParams bounds a ledger query by transaction date, both ends inclusive.
type DateRangeParams struct {
	StartDate time.Time `form:"startDate" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate   time.Time `form:"endDate" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(entry *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                  entry.EntryID,
		SourceAccountNumber: entry.SourceAccountNumber,
		TargetAccountNumber: entry.TargetAccountNumber,
		Amount:              FormatAmount(entry.Amount),
		Type:                entry.EntryType,
		Status:              entry.Status,
		Description:         entry.Description,
		TransactionDate:     entry.TransactionDate,
	}
}

// ToLedgerEntryResponses converts a slice of entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}

// ToListEntriesResponse converts a domain.EntryPage to its DTO.
func ToListEntriesResponse(page *domain.EntryPage) ListEntriesResponse {
	return ListEntriesResponse{
		Entries:  ToLedgerEntryResponses(page.Entries),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}
}
