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
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultProvisioningAttempts bounds the account number search when no option overrides it.
const DefaultProvisioningAttempts = 16

// AccountNumberGenerator produces candidate account numbers.
type AccountNumberGenerator func() (string, error)

// RandomAccountNumber draws a uniformly random fixed-width account number from crypto/rand.
func RandomAccountNumber() (string, error) {
	return utils.GenerateNumericString(domain.AccountNumberLength)
}

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	ownerRepo   portsrepo.OwnerReader
	generate    AccountNumberGenerator
	maxAttempts int
	retry       RetryPolicy
	now         func() time.Time
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountServiceImpl)

// WithAccountNumberGenerator replaces the random account number source.
func WithAccountNumberGenerator(gen AccountNumberGenerator) ServiceOption {
	return func(s *accountServiceImpl) {
		s.generate = gen
	}
}

// WithProvisioningAttempts sets how many candidate numbers are tried before giving up.
func WithProvisioningAttempts(n int) ServiceOption {
	return func(s *accountServiceImpl) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithAccountRetryPolicy sets the retry policy for administrative balance updates.
func WithAccountRetryPolicy(policy RetryPolicy) ServiceOption {
	return func(s *accountServiceImpl) {
		s.retry = policy
	}
}

// NewAccountServiceImpl creates a new account service with the provided options
func NewAccountServiceImpl(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountRepositoryFacade,
	ownerRepo portsrepo.OwnerReader,
	options ...ServiceOption,
) portssvc.AccountSvcFacade {
	svc := &accountServiceImpl{
		txManager:   txManager,
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
		generate:    RandomAccountNumber,
		maxAttempts: DefaultProvisioningAttempts,
		retry:       DefaultRetryPolicy,
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountServiceImpl implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

// CreateAccount provisions a zero-balance account. Candidate numbers that are already
// taken, or that lose a race on insert, are discarded; after maxAttempts the call fails
// with ErrProvisioningExhausted.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerId is required", apperrors.ErrValidation)
	}
	if accountType != domain.Checking && accountType != domain.Savings {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}

	exists, err := s.ownerRepo.OwnerExists(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve owner", slog.String("owner_id", ownerID))
		return nil, err
	}
	if !exists {
		s.LogDebug(ctx, "Owner not found", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOwnerNotFound, ownerID)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		number, err := s.generate()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate account number")
			return nil, fmt.Errorf("%w: generate account number: %w", apperrors.ErrInternal, err)
		}

		taken, err := s.accountRepo.AccountNumberExists(ctx, number)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account number", slog.String("account_number", number))
			return nil, err
		}
		if taken {
			s.LogDebug(ctx, "Account number collision", slog.String("account_number", number), slog.Int("attempt", attempt))
			continue
		}

		now := storedTime(s.now())
		account := domain.Account{
			AccountID:     uuid.NewString(),
			AccountNumber: number,
			AccountType:   accountType,
			Balance:       decimal.Zero,
			OwnerID:       ownerID,
			AuditFields:   domain.AuditFields{CreatedAt: now, UpdatedAt: now},
		}

		err = s.accountRepo.SaveAccount(ctx, account)
		if errors.Is(err, apperrors.ErrConflict) {
			s.LogDebug(ctx, "Account number taken concurrently", slog.String("account_number", number), slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_number", number))
			return nil, err
		}

		metrics.AccountsProvisionedTotal.Inc()
		s.LogInfo(ctx, "Account created successfully",
			slog.String("account_id", account.AccountID),
			slog.String("account_number", account.AccountNumber),
			slog.String("owner_id", ownerID))
		return &account, nil
	}

	err = fmt.Errorf("%w: no free account number after %d attempts", apperrors.ErrProvisioningExhausted, s.maxAttempts)
	s.LogError(ctx, err, "Account provisioning exhausted", slog.String("owner_id", ownerID))
	return nil, err
}

func (s *accountServiceImpl) GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(accountNumber); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) ListOwnerAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	exists, err := s.ownerRepo.OwnerExists(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve owner", slog.String("owner_id", ownerID))
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOwnerNotFound, ownerID)
	}

	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list owner accounts", slog.String("owner_id", ownerID))
		return nil, err
	}
	return accounts, nil
}

// SetBalance overwrites the balance while holding the account's row lock, so it
// serialises with in-flight transfers touching the same account.
func (s *accountServiceImpl) SetBalance(ctx context.Context, accountNumber string, balance decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNegativeBalance, balance.String())
	}

	var updated domain.Account
	err := s.withRetry(ctx, s.retry, "set_balance", func() error {
		return s.runInTx(ctx, s.txManager, func(tx portsrepo.Tx) error {
			accounts, err := s.accountRepo.FindAccountsByNumbersForUpdate(ctx, tx, []string{accountNumber})
			if err != nil {
				return err
			}
			account, ok := accounts[accountNumber]
			if !ok {
				return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountNumber)
			}

			account.Balance = balance
			account.Touch(storedTime(s.now()))
			if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, account); err != nil {
				return err
			}
			updated = account
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to set balance", slog.String("account_number", accountNumber))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account balance set",
		slog.String("account_number", accountNumber),
		slog.String("balance", balance.String()))
	return &updated, nil
}
