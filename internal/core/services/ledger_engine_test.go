package services_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/config"
	"github.com/SscSPs/ledger_transfer_engine/internal/repositories/memory"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

// LedgerEngineTestSuite drives the full service stack against the in-memory store.
type LedgerEngineTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func (suite *LedgerEngineTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore(5 * time.Second)
	suite.store.RegisterOwner(domain.Owner{OwnerID: "owner-1", Name: "Ada", CreatedAt: time.Now().UTC()})

	cfg := &config.Config{
		TransferMaxRetries:      3,
		RetryBaseDelay:          time.Millisecond,
		RetryMaxDelay:           10 * time.Millisecond,
		ProvisioningMaxAttempts: 16,
	}
	suite.svc = services.NewServiceContainer(cfg, memory.NewRepositoryProvider(suite.store), nil)
}

func (suite *LedgerEngineTestSuite) openAccount(balance int64) string {
	account, err := suite.svc.Account.CreateAccount(suite.ctx, "owner-1", domain.Checking)
	suite.Require().NoError(err)
	if balance != 0 {
		_, err = suite.svc.Account.SetBalance(suite.ctx, account.AccountNumber, decimal.NewFromInt(balance))
		suite.Require().NoError(err)
	}
	return account.AccountNumber
}

func (suite *LedgerEngineTestSuite) balanceOf(number string) decimal.Decimal {
	account, err := suite.svc.Account.GetAccount(suite.ctx, number)
	suite.Require().NoError(err)
	return account.Balance
}

func (suite *LedgerEngineTestSuite) TestTransferMovesValueAndRecordsEntry() {
	a := suite.openAccount(100)
	b := suite.openAccount(0)

	entry, err := suite.svc.Transfer.Transfer(suite.ctx, a, b, decimal.NewFromInt(30), "rent")
	suite.Require().NoError(err)

	suite.True(suite.balanceOf(a).Equal(decimal.NewFromInt(70)))
	suite.True(suite.balanceOf(b).Equal(decimal.NewFromInt(30)))

	stored, err := suite.svc.Ledger.GetEntry(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Completed, stored.Status)
	suite.Equal("rent", stored.Description)

	page, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, a, nil)
	suite.Require().NoError(err)
	suite.Len(page.Entries, 1)
	suite.Equal(1, page.Total)
}

func (suite *LedgerEngineTestSuite) TestInsufficientFundsLeavesStateUntouched() {
	a := suite.openAccount(100)
	b := suite.openAccount(0)

	_, err := suite.svc.Transfer.Transfer(suite.ctx, a, b, decimal.NewFromInt(9999999), "")
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	suite.True(suite.balanceOf(a).Equal(decimal.NewFromInt(100)))
	suite.True(suite.balanceOf(b).IsZero())
	page, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, a, nil)
	suite.Require().NoError(err)
	suite.Empty(page.Entries)
}

func (suite *LedgerEngineTestSuite) TestTransferToUnknownAccount() {
	a := suite.openAccount(100)

	_, err := suite.svc.Transfer.Transfer(suite.ctx, a, "9999999999", decimal.NewFromInt(1), "")

	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.True(suite.balanceOf(a).Equal(decimal.NewFromInt(100)))
}

func (suite *LedgerEngineTestSuite) TestOpposingConcurrentTransfersConserveValue() {
	a := suite.openAccount(1000)
	b := suite.openAccount(1000)

	const workers = 100
	g, ctx := errgroup.WithContext(suite.ctx)
	for i := 0; i < workers; i++ {
		src, dst := a, b
		if i%2 == 1 {
			src, dst = b, a
		}
		g.Go(func() error {
			_, err := suite.svc.Transfer.Transfer(ctx, src, dst, decimal.NewFromInt(int64(i%7+1)), fmt.Sprintf("t-%d", i))
			return err
		})
	}
	suite.Require().NoError(g.Wait())

	total := suite.balanceOf(a).Add(suite.balanceOf(b))
	suite.True(total.Equal(decimal.NewFromInt(2000)), "total drifted to %s", total)

	page, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, a, nil)
	suite.Require().NoError(err)
	suite.Equal(workers, page.Total)
}

func (suite *LedgerEngineTestSuite) TestConcurrentDebitsAreNotLost() {
	a := suite.openAccount(50)
	b := suite.openAccount(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.svc.Transfer.Transfer(suite.ctx, a, b, decimal.NewFromInt(1), "")
			suite.NoError(err)
		}()
	}
	wg.Wait()

	suite.True(suite.balanceOf(a).IsZero())
	suite.True(suite.balanceOf(b).Equal(decimal.NewFromInt(50)))

	_, err := suite.svc.Transfer.Transfer(suite.ctx, a, b, decimal.NewFromInt(1), "")
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (suite *LedgerEngineTestSuite) TestConcurrentProvisioningYieldsUniqueNumbers() {
	const n = 1000
	numbers := make([]string, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			account, err := suite.svc.Account.CreateAccount(suite.ctx, "owner-1", domain.Savings)
			if err != nil {
				return err
			}
			numbers[i] = account.AccountNumber
			return nil
		})
	}
	suite.Require().NoError(g.Wait())

	seen := make(map[string]struct{}, n)
	for _, number := range numbers {
		suite.True(domain.IsAccountNumber(number), "malformed number %q", number)
		seen[number] = struct{}{}
	}
	suite.Len(seen, n)

	owned, err := suite.svc.Account.ListOwnerAccounts(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	suite.Len(owned, n)
}

func (suite *LedgerEngineTestSuite) TestPagedAccountEntries() {
	a := suite.openAccount(10)
	b := suite.openAccount(0)
	for i := 0; i < 5; i++ {
		_, err := suite.svc.Transfer.Transfer(suite.ctx, a, b, decimal.NewFromInt(1), fmt.Sprintf("p-%d", i))
		suite.Require().NoError(err)
	}

	req, err := pagination.NewPageRequest(1, 2)
	suite.Require().NoError(err)
	page, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, b, &req)
	suite.Require().NoError(err)

	suite.Equal(5, page.Total)
	suite.Equal(1, page.Page)
	suite.Equal(2, page.PageSize)
	suite.Require().Len(page.Entries, 2)
	suite.Equal("p-2", page.Entries[0].Description)
	suite.Equal("p-3", page.Entries[1].Description)
}

func (suite *LedgerEngineTestSuite) TestPagedAccountEntries_PageOutOfRange() {
	a := suite.openAccount(10)
	b := suite.openAccount(0)
	_, err := suite.svc.Transfer.Transfer(suite.ctx, a, b, decimal.NewFromInt(1), "")
	suite.Require().NoError(err)

	_, err = pagination.NewPageRequest(math.MaxInt/50, 100)
	suite.ErrorIs(err, apperrors.ErrValidation)

	page, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, b, &pagination.PageRequest{Page: math.MaxInt / 50, PageSize: 100})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(page)
}

func (suite *LedgerEngineTestSuite) TestListAccountEntries_UnknownAccount() {
	_, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, "9999999999", nil)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *LedgerEngineTestSuite) TestEntriesByDateRange() {
	a := suite.openAccount(10)
	b := suite.openAccount(0)
	before := time.Now().UTC().Add(-time.Minute)
	_, err := suite.svc.Transfer.Transfer(suite.ctx, a, b, decimal.NewFromInt(1), "")
	suite.Require().NoError(err)
	after := time.Now().UTC().Add(time.Minute)

	entries, err := suite.svc.Ledger.ListEntriesByDateRange(suite.ctx, before, after)
	suite.Require().NoError(err)
	suite.Len(entries, 1)

	entries, err = suite.svc.Ledger.ListEntriesByDateRange(suite.ctx, after, after.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Empty(entries)

	_, err = suite.svc.Ledger.ListEntriesByDateRange(suite.ctx, after, before)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerEngineTestSuite) TestGetEntry_NotFound() {
	_, err := suite.svc.Ledger.GetEntry(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrEntryNotFound)

	_, err = suite.svc.Ledger.GetEntry(suite.ctx, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLedgerEngineTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerEngineTestSuite))
}
