package dto

import (
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
// AccountType defaults to CHECKING when omitted.
type CreateAccountRequest struct {
	OwnerID     string             `json:"ownerId" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"omitempty,oneof=CHECKING SAVINGS"`
}

// SetBalanceRequest overwrites an account balance. Administrative use only.
type SetBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" binding:"required" swaggertype:"string" example:"100.00"`
}

// AccountResponse defines the data returned for an account.
// Balance is rendered as a decimal string with at least two fraction digits, never rounded.
type AccountResponse struct {
	ID            string             `json:"id"`
	AccountNumber string             `json:"accountNumber"`
	AccountType   domain.AccountType `json:"accountType"`
	Balance       string             `json:"balance" example:"70.00"`
	OwnerID       string             `json:"ownerId"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// FormatAmount renders d with at least two fraction digits. Longer scales are kept as is.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(max(2, -d.Exponent()))
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		ID:            acc.AccountID,
		AccountNumber: acc.AccountNumber,
		AccountType:   acc.AccountType,
		Balance:       FormatAmount(acc.Balance),
		OwnerID:       acc.OwnerID,
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
