package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestSpecialisedErrorsWrapTheirClass(t *testing.T) {
	assert.ErrorIs(t, apperrors.ErrAccountNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, apperrors.ErrOwnerNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, apperrors.ErrEntryNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, apperrors.ErrInvalidAmount, apperrors.ErrValidation)
	assert.ErrorIs(t, apperrors.ErrSameAccount, apperrors.ErrValidation)
	assert.ErrorIs(t, apperrors.ErrNegativeBalance, apperrors.ErrValidation)
	assert.NotErrorIs(t, apperrors.ErrInsufficientFunds, apperrors.ErrValidation)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, apperrors.IsRetryable(fmt.Errorf("%w: lock_timeout", apperrors.ErrTimeout)))
	assert.True(t, apperrors.IsRetryable(fmt.Errorf("%w: 40P01", apperrors.ErrDeadlock)))
	assert.False(t, apperrors.IsRetryable(apperrors.ErrInsufficientFunds))
	assert.False(t, apperrors.IsRetryable(fmt.Errorf("%w: disk full", apperrors.ErrInternal)))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"account not found", fmt.Errorf("%w: 0000000001", apperrors.ErrAccountNotFound), http.StatusNotFound},
		{"invalid amount", apperrors.ErrInvalidAmount, http.StatusBadRequest},
		{"insufficient funds", apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"conflict", apperrors.ErrDuplicate, http.StatusConflict},
		{"timeout", apperrors.ErrTimeout, http.StatusServiceUnavailable},
		{"exhausted", apperrors.ErrProvisioningExhausted, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.HTTPStatus(tt.err))
		})
	}
}
