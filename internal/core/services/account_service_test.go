package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	txManager   *MockTxManager
	accountRepo *MockAccountRepository
	ownerRepo   *MockOwnerRepository
	candidates  []string
	service     portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.txManager = new(MockTxManager)
	suite.accountRepo = new(MockAccountRepository)
	suite.ownerRepo = new(MockOwnerRepository)
	suite.candidates = []string{"0000000001", "0000000002", "0000000003"}
	suite.service = suite.newService(3)
}

func (suite *AccountServiceTestSuite) newService(attempts int) portssvc.AccountSvcFacade {
	next := 0
	gen := func() (string, error) {
		number := suite.candidates[next%len(suite.candidates)]
		next++
		return number, nil
	}
	return services.NewAccountServiceImpl(
		suite.txManager,
		suite.accountRepo,
		suite.ownerRepo,
		services.WithAccountNumberGenerator(gen),
		services.WithProvisioningAttempts(attempts),
	)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	suite.ownerRepo.On("OwnerExists", suite.ctx, "owner-1").Return(true, nil).Once()
	suite.accountRepo.On("AccountNumberExists", suite.ctx, "0000000001").Return(false, nil).Once()
	suite.accountRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "owner-1", domain.Savings)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("0000000001", account.AccountNumber)
	suite.Equal(domain.Savings, account.AccountType)
	suite.Equal("owner-1", account.OwnerID)
	suite.True(account.Balance.IsZero())
	suite.Equal(account.CreatedAt, account.UpdatedAt)
	suite.accountRepo.AssertExpectations(suite.T())
	suite.ownerRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SkipsTakenNumbers() {
	suite.ownerRepo.On("OwnerExists", suite.ctx, "owner-1").Return(true, nil).Once()
	suite.accountRepo.On("AccountNumberExists", suite.ctx, "0000000001").Return(true, nil).Once()
	suite.accountRepo.On("AccountNumberExists", suite.ctx, "0000000002").Return(false, nil).Once()
	suite.accountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountNumber == "0000000002"
	})).Return(apperrors.ErrConflict).Once()
	suite.accountRepo.On("AccountNumberExists", suite.ctx, "0000000003").Return(false, nil).Once()
	suite.accountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountNumber == "0000000003"
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "owner-1", domain.Checking)

	suite.Require().NoError(err)
	suite.Equal("0000000003", account.AccountNumber)
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Exhausted() {
	suite.ownerRepo.On("OwnerExists", suite.ctx, "owner-1").Return(true, nil).Once()
	suite.accountRepo.On("AccountNumberExists", suite.ctx, mock.AnythingOfType("string")).Return(true, nil).Times(3)

	account, err := suite.service.CreateAccount(suite.ctx, "owner-1", domain.Checking)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrProvisioningExhausted)
	suite.accountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownOwner() {
	suite.ownerRepo.On("OwnerExists", suite.ctx, "ghost").Return(false, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "ghost", domain.Checking)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrOwnerNotFound)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.accountRepo.AssertNotCalled(suite.T(), "AccountNumberExists", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidInput() {
	_, err := suite.service.CreateAccount(suite.ctx, "  ", domain.Checking)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateAccount(suite.ctx, "owner-1", domain.AccountType("BROKERAGE"))
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.ownerRepo.AssertNotCalled(suite.T(), "OwnerExists", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RepositoryErrorIsNotSwallowed() {
	suite.ownerRepo.On("OwnerExists", suite.ctx, "owner-1").Return(true, nil).Once()
	suite.accountRepo.On("AccountNumberExists", suite.ctx, "0000000001").Return(false, nil).Once()
	suite.accountRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "owner-1", domain.Checking)

	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestGetAccount() {
	want := &domain.Account{AccountNumber: "0000000001", Balance: decimal.NewFromInt(5)}
	suite.accountRepo.On("FindAccountByNumber", suite.ctx, "0000000001").Return(want, nil).Once()

	got, err := suite.service.GetAccount(suite.ctx, "0000000001")
	suite.Require().NoError(err)
	suite.Equal(want, got)

	_, err = suite.service.GetAccount(suite.ctx, "12ab")
	suite.ErrorIs(err, apperrors.ErrInvalidAccountNumber)
}

func (suite *AccountServiceTestSuite) TestListOwnerAccounts_UnknownOwner() {
	suite.ownerRepo.On("OwnerExists", suite.ctx, "ghost").Return(false, nil).Once()

	_, err := suite.service.ListOwnerAccounts(suite.ctx, "ghost")

	suite.ErrorIs(err, apperrors.ErrOwnerNotFound)
}

func (suite *AccountServiceTestSuite) TestSetBalance_Success() {
	tx := new(MockTx)
	suite.txManager.On("Begin", suite.ctx).Return(tx, nil).Once()
	suite.accountRepo.On("FindAccountsByNumbersForUpdate", suite.ctx, tx, []string{"0000000001"}).
		Return(map[string]domain.Account{"0000000001": {AccountNumber: "0000000001", Balance: decimal.Zero}}, nil).Once()
	suite.accountRepo.On("UpdateAccountBalanceInTx", suite.ctx, tx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Balance.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()
	tx.On("Commit", suite.ctx).Return(nil).Once()
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()

	account, err := suite.service.SetBalance(suite.ctx, "0000000001", decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(decimal.NewFromInt(100)))
	tx.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetBalance_RejectsNegative() {
	_, err := suite.service.SetBalance(suite.ctx, "0000000001", decimal.NewFromInt(-1))

	suite.ErrorIs(err, apperrors.ErrNegativeBalance)
	suite.txManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSetBalance_UnknownAccountRollsBack() {
	tx := new(MockTx)
	suite.txManager.On("Begin", suite.ctx).Return(tx, nil).Once()
	suite.accountRepo.On("FindAccountsByNumbersForUpdate", suite.ctx, tx, []string{"0000000009"}).
		Return(map[string]domain.Account{}, nil).Once()
	tx.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := suite.service.SetBalance(suite.ctx, "0000000009", decimal.NewFromInt(1))

	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	tx.AssertNotCalled(suite.T(), "Commit", mock.Anything)
	tx.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
