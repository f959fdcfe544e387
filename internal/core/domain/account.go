package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType defines the product an account was opened as.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

// AccountNumberLength is the fixed width of an account number, leading zeros included.
const AccountNumberLength = 10

// Account represents a customer account whose balance is moved by transfers.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string          `json:"accountNumber"` // Unique, externally addressable
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"` // Never negative across a commit
	OwnerID       string          `json:"ownerID"` // Reference to an external owner
	AuditFields
}

// ParseAccountType normalises raw input into a known AccountType.
// An empty value defaults to CHECKING.
func ParseAccountType(raw string) (AccountType, error) {
	switch t := AccountType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case "":
		return Checking, nil
	case Checking, Savings:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, raw)
	}
}

// ValidateAccountNumber checks the fixed-width numeric format.
func ValidateAccountNumber(number string) error {
	if !IsAccountNumber(number) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidAccountNumber, number)
	}
	return nil
}

// IsAccountNumber reports whether number is exactly AccountNumberLength ASCII digits.
func IsAccountNumber(number string) bool {
	if len(number) != AccountNumberLength {
		return false
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}
	return true
}

// CanCover reports whether the account balance is at least amount.
func (a Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
