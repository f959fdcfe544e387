package metrics

import (
	"fmt"
	"testing"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransferOutcome(t *testing.T) {
	assert.Equal(t, OutcomeCompleted, TransferOutcome(nil))
	assert.Equal(t, OutcomeInsufficientFunds, TransferOutcome(apperrors.ErrInsufficientFunds))
	assert.Equal(t, OutcomeNotFound, TransferOutcome(fmt.Errorf("%w: 0000000001", apperrors.ErrAccountNotFound)))
	assert.Equal(t, OutcomeInvalid, TransferOutcome(apperrors.ErrSameAccount))
	assert.Equal(t, OutcomeTimeout, TransferOutcome(apperrors.ErrTimeout))
	assert.Equal(t, OutcomeDeadlock, TransferOutcome(apperrors.ErrDeadlock))
	assert.Equal(t, OutcomeError, TransferOutcome(assert.AnError))
}

func TestTransfersTotalCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(TransfersTotal.WithLabelValues(OutcomeTimeout))
	TransfersTotal.WithLabelValues(TransferOutcome(apperrors.ErrTimeout)).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(TransfersTotal.WithLabelValues(OutcomeTimeout)))
}
