package domain

// EntryPage is one page of an account's ledger entries plus the total across all pages.
type EntryPage struct {
	Entries  []LedgerEntry `json:"entries"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int           `json:"total"`
}
