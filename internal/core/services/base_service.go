package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_transfer_engine/internal/middleware"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/backoff"
)

// TimestampPrecision is the resolution of persisted timestamps (Postgres TIMESTAMPTZ).
const TimestampPrecision = time.Microsecond

// storedTime normalises t to what the datastore keeps, so a returned timestamp reads back equal.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).WarnContext(ctx, msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

// RetryPolicy bounds how often an atomic unit is replayed after a Timeout or Deadlock.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy is used when a service is built without WithRetryPolicy.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, BaseDelay: 25 * time.Millisecond, MaxDelay: 500 * time.Millisecond}

// runInTx executes fn inside one atomic unit and commits when fn succeeds.
// Any error from fn, or a failed commit, leaves nothing behind.
func (s *BaseService) runInTx(ctx context.Context, tm portsrepo.TransactionManager, fn func(tx portsrepo.Tx) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// withRetry runs attempt until it succeeds, fails with a non-retryable error, or the
// policy is exhausted. Only Timeout and Deadlock are retried.
func (s *BaseService) withRetry(ctx context.Context, policy RetryPolicy, operation string, attempt func() error) error {
	for n := 0; ; n++ {
		err := attempt()
		if err == nil || !apperrors.IsRetryable(err) || n >= policy.MaxRetries {
			return err
		}

		reason := metrics.OutcomeTimeout
		if errors.Is(err, apperrors.ErrDeadlock) {
			reason = metrics.OutcomeDeadlock
		}
		metrics.UnitRetriesTotal.WithLabelValues(operation, reason).Inc()

		delay := backoff.Capped(policy.BaseDelay, policy.MaxDelay, n)
		s.LogWarn(ctx, "Retrying atomic unit after transient fault",
			slog.String("operation", operation),
			slog.Int("attempt", n+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		if sleepErr := backoff.SleepWithContext(ctx, delay); sleepErr != nil {
			return err
		}
	}
}
