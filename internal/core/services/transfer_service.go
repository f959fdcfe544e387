package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/ports/publishers"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transferService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountTransactionSupport
	ledgerRepo  portsrepo.LedgerWriter
	publisher   publishers.EventPublisher
	retry       RetryPolicy
	now         func() time.Time
	newID       func() string
}

// TransferOption configures the transfer service.
type TransferOption func(*transferService)

// WithRetryPolicy sets how Timeout and Deadlock failures are retried.
func WithRetryPolicy(policy RetryPolicy) TransferOption {
	return func(s *transferService) {
		s.retry = policy
	}
}

// WithEventPublisher announces committed transfers through publisher.
func WithEventPublisher(publisher publishers.EventPublisher) TransferOption {
	return func(s *transferService) {
		s.publisher = publisher
	}
}

// WithClock overrides the time source used for entry dates and updatedAt.
func WithClock(now func() time.Time) TransferOption {
	return func(s *transferService) {
		s.now = now
	}
}

// NewTransferService creates the transfer engine.
func NewTransferService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountTransactionSupport,
	ledgerRepo portsrepo.LedgerWriter,
	options ...TransferOption,
) portssvc.TransferSvc {
	svc := &transferService{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		retry:       DefaultRetryPolicy,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// Transfer moves amount from source to target. Both accounts are locked in ascending
// account number order, the balances and the ledger entry are written in one atomic
// unit, and Timeout/Deadlock failures replay the whole unit under the retry policy.
func (s *transferService) Transfer(ctx context.Context, sourceAccountNumber string, targetAccountNumber string, amount decimal.Decimal, description string) (*domain.LedgerEntry, error) {
	start := time.Now()
	entry, err := s.transfer(ctx, sourceAccountNumber, targetAccountNumber, amount, description)
	metrics.TransferDuration.Observe(time.Since(start).Seconds())
	metrics.TransfersTotal.WithLabelValues(metrics.TransferOutcome(err)).Inc()
	return entry, err
}

func (s *transferService) transfer(ctx context.Context, source, target string, amount decimal.Decimal, description string) (*domain.LedgerEntry, error) {
	if err := validateTransfer(source, target, amount); err != nil {
		s.LogDebug(ctx, "Rejected transfer request", slog.String("error", err.Error()))
		return nil, err
	}

	var committed domain.LedgerEntry
	err := s.withRetry(ctx, s.retry, "transfer", func() error {
		return s.runInTx(ctx, s.txManager, func(tx portsrepo.Tx) error {
			entry, err := s.applyTransfer(ctx, tx, source, target, amount, description)
			if err != nil {
				return err
			}
			committed = entry
			return nil
		})
	})
	if err != nil {
		logArgs := []any{
			slog.String("source_account", source),
			slog.String("target_account", target),
			slog.String("amount", amount.String()),
		}
		if apperrors.HTTPStatus(err) >= 500 {
			s.LogError(ctx, err, "Transfer failed", logArgs...)
		} else {
			s.LogInfo(ctx, "Transfer rejected", append(logArgs, slog.String("reason", err.Error()))...)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transaction_id", committed.EntryID),
		slog.String("source_account", source),
		slog.String("target_account", target),
		slog.String("amount", amount.String()))

	s.publish(ctx, committed)
	return &committed, nil
}

// applyTransfer runs inside the atomic unit. Nothing it writes is visible until commit.
func (s *transferService) applyTransfer(ctx context.Context, tx portsrepo.Tx, source, target string, amount decimal.Decimal, description string) (domain.LedgerEntry, error) {
	accounts, err := s.accountRepo.FindAccountsByNumbersForUpdate(ctx, tx, []string{source, target})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	src, ok := accounts[source]
	if !ok {
		return domain.LedgerEntry{}, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, source)
	}
	dst, ok := accounts[target]
	if !ok {
		return domain.LedgerEntry{}, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, target)
	}

	if !src.CanCover(amount) {
		return domain.LedgerEntry{}, fmt.Errorf("%w: account %s holds %s, transfer needs %s",
			apperrors.ErrInsufficientFunds, source, src.Balance.String(), amount.String())
	}

	now := storedTime(s.now())
	entry := domain.NewTransferEntry(s.newID(), source, target, amount, description, now)

	src.Balance = src.Balance.Sub(amount)
	src.Touch(now)
	dst.Balance = dst.Balance.Add(amount)
	dst.Touch(now)

	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, src); err != nil {
		return domain.LedgerEntry{}, err
	}
	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, dst); err != nil {
		return domain.LedgerEntry{}, err
	}
	if err := entry.TransitionTo(domain.Completed); err != nil {
		return domain.LedgerEntry{}, err
	}
	if err := s.ledgerRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return domain.LedgerEntry{}, err
	}
	return entry, nil
}

func (s *transferService) publish(ctx context.Context, entry domain.LedgerEntry) {
	if s.publisher == nil {
		return
	}
	// Runs after commit; a publish failure is logged only.
	if err := s.publisher.PublishTransferCompleted(context.WithoutCancel(ctx), domain.NewTransferCompleted(entry)); err != nil {
		s.LogError(ctx, err, "Failed to publish transfer completed event", slog.String("transaction_id", entry.EntryID))
	}
}

func validateTransfer(source, target string, amount decimal.Decimal) error {
	if err := domain.ValidateAccountNumber(source); err != nil {
		return err
	}
	if err := domain.ValidateAccountNumber(target); err != nil {
		return err
	}
	if source == target {
		return fmt.Errorf("%w: %s", apperrors.ErrSameAccount, source)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	return nil
}
