package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsAccountNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"ten digits", "0123456789", true},
		{"all zeros", "0000000000", true},
		{"too short", "123456789", false},
		{"too long", "01234567890", false},
		{"letters", "01234x6789", false},
		{"empty", "", false},
		{"unicode digits", "０１２３４５６７８９", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsAccountNumber(tt.number))
		})
	}
}

func TestValidateAccountNumber(t *testing.T) {
	assert.NoError(t, domain.ValidateAccountNumber("0000000042"))
	err := domain.ValidateAccountNumber("42")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAccountNumber)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		raw     string
		want    domain.AccountType
		wantErr bool
	}{
		{raw: "", want: domain.Checking},
		{raw: "checking", want: domain.Checking},
		{raw: " SAVINGS ", want: domain.Savings},
		{raw: "brokerage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := domain.ParseAccountType(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccount_CanCover(t *testing.T) {
	acc := domain.Account{Balance: decimal.RequireFromString("70.00")}
	assert.True(t, acc.CanCover(decimal.RequireFromString("70")))
	assert.True(t, acc.CanCover(decimal.RequireFromString("0.01")))
	assert.False(t, acc.CanCover(decimal.RequireFromString("70.01")))
}
