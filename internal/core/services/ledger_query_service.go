package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/pagination"
)

type ledgerQueryService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewLedgerQueryService creates the read-side service over ledger entries.
func NewLedgerQueryService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.LedgerQuerySvc {
	return &ledgerQueryService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerQuerySvc = (*ledgerQueryService)(nil)

func (s *ledgerQueryService) GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	if strings.TrimSpace(entryID) == "" {
		return nil, fmt.Errorf("%w: transaction id is required", apperrors.ErrValidation)
	}
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ledger entry", slog.String("transaction_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerQueryService) ListAccountEntries(ctx context.Context, accountNumber string, page *pagination.PageRequest) (*domain.EntryPage, error) {
	if err := domain.ValidateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if page != nil {
		checked, err := pagination.NewPageRequest(page.Page, page.PageSize)
		if err != nil {
			return nil, err
		}
		page = &checked
	}
	if _, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve account", slog.String("account_number", accountNumber))
		}
		return nil, err
	}

	if page == nil {
		entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountNumber, 0, 0)
		if err != nil {
			s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_number", accountNumber))
			return nil, err
		}
		return &domain.EntryPage{Entries: entries, Page: 0, PageSize: len(entries), Total: len(entries)}, nil
	}

	total, err := s.ledgerRepo.CountEntriesByAccount(ctx, accountNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to count ledger entries", slog.String("account_number", accountNumber))
		return nil, err
	}
	entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountNumber, page.Limit(), page.Offset())
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_number", accountNumber))
		return nil, err
	}
	return &domain.EntryPage{Entries: entries, Page: page.Page, PageSize: page.PageSize, Total: total}, nil
}

func (s *ledgerQueryService) ListEntriesByDateRange(ctx context.Context, start time.Time, end time.Time) ([]domain.LedgerEntry, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", apperrors.ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: endDate %s is before startDate %s", apperrors.ErrValidation,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	entries, err := s.ledgerRepo.ListEntriesByDateRange(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries by date range")
		return nil, err
	}
	return entries, nil
}
