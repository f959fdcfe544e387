package metrics

import (
	"errors"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transfer outcomes recorded on TransfersTotal.
const (
	OutcomeCompleted         = "completed"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeNotFound          = "not_found"
	OutcomeInvalid           = "invalid"
	OutcomeTimeout           = "timeout"
	OutcomeDeadlock          = "deadlock"
	OutcomeError             = "error"
)

var (
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transfers_total",
		Help: "Transfers processed, labeled by outcome",
	}, []string{"outcome"})

	UnitRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_unit_retries_total",
		Help: "Atomic units replayed after a transient concurrency fault",
	}, []string{"operation", "reason"})

	TransferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_transfer_duration_seconds",
		Help:    "Latency of a transfer including retries",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	AccountsProvisionedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_accounts_provisioned_total",
		Help: "Accounts successfully provisioned",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// TransferOutcome classifies the result of a transfer for TransfersTotal.
func TransferOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return OutcomeInsufficientFunds
	case errors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, apperrors.ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, apperrors.ErrDeadlock):
		return OutcomeDeadlock
	default:
		return OutcomeError
	}
}
