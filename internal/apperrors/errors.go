package apperrors

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a unique constraint was violated, e.g. an account number collision.
var ErrConflict = errors.New("resource conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = ErrConflict

// ErrInsufficientFunds indicates the source account cannot cover the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrProvisioningExhausted indicates no free account number was found within the retry budget.
var ErrProvisioningExhausted = errors.New("account number provisioning exhausted")

// ErrTimeout indicates the row locks for an atomic unit could not be acquired in time.
var ErrTimeout = errors.New("lock acquisition timed out")

// ErrDeadlock indicates the datastore aborted the atomic unit to break a lock cycle.
var ErrDeadlock = errors.New("deadlock detected")

// ErrInternal indicates an unexpected persistence fault.
var ErrInternal = errors.New("internal error")

var (
	ErrAccountNotFound = wrapClass(ErrNotFound, "account not found")
	ErrOwnerNotFound   = wrapClass(ErrNotFound, "owner not found")
	ErrEntryNotFound   = wrapClass(ErrNotFound, "ledger entry not found")

	ErrInvalidAmount        = wrapClass(ErrValidation, "amount must be positive")
	ErrSameAccount          = wrapClass(ErrValidation, "source and target accounts must differ")
	ErrInvalidAccountNumber = wrapClass(ErrValidation, "account number must be exactly 10 digits")
	ErrNegativeBalance      = wrapClass(ErrValidation, "balance cannot be negative")
)

// classError is a named error belonging to one of the taxonomy classes above.
type classError struct {
	class error
	msg   string
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Unwrap() error { return e.class }

func wrapClass(class error, msg string) error {
	return &classError{class: class, msg: msg}
}

// IsRetryable reports whether err is a transient concurrency fault.
// The whole atomic unit can safely be replayed for these.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrDeadlock)
}

// HTTPStatus maps an error from the taxonomy to the HTTP status code surfaced to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case IsRetryable(err), errors.Is(err, ErrProvisioningExhausted), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
