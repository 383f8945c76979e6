package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jsmitterc/remesafe/internal/apperrors"
	"github.com/jsmitterc/remesafe/internal/core/domain"
	portssvc "github.com/jsmitterc/remesafe/internal/core/ports/services"
	"github.com/jsmitterc/remesafe/internal/core/services"
	"github.com/jsmitterc/remesafe/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Code:           "1000",
		Alias:          "Checking",
		AccountType:    domain.Asset,
		CurrencyCode:   "USD",
		OpeningBalance: decimal.NewFromInt(150),
	}

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(context.Background(), suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("1000", saved.Code)
	suite.Equal(suite.userID, saved.UserID)
	suite.True(saved.IsActive)
	suite.True(saved.Balance.Equal(decimal.NewFromInt(150)))
	suite.Equal(suite.userID, saved.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ReservedCodeRejected() {
	req := dto.CreateAccountRequest{
		Code:         domain.ReservedUnassignedCode,
		Alias:        "Bad",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	account, err := suite.service.CreateAccount(context.Background(), suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{
		Code:         "1000",
		Alias:        "Checking",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.CreateAccount(context.Background(), suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherUsersAccountHidden() {
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Code:      "1000",
		UserID:    uuid.NewString(), // different owner
	}
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).
		Return(account, nil).Once()

	found, err := suite.service.GetAccountByID(context.Background(), suite.userID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(found)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_AppliesPartialFields() {
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID: accountID,
		Code:      "1000",
		Alias:     "Old Alias",
		UserID:    suite.userID,
		IsActive:  true,
	}
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, accountID).
		Return(existing, nil).Once()

	newAlias := "New Alias"
	var updated domain.Account
	suite.mockAccountRepo.On("UpdateAccount", mock.Anything, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Account)
		}).
		Return(nil).Once()

	account, err := suite.service.UpdateAccount(context.Background(), suite.userID, accountID, dto.UpdateAccountRequest{Alias: &newAlias})

	suite.Require().NoError(err)
	suite.Equal("New Alias", account.Alias)
	suite.Equal("New Alias", updated.Alias)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NotFoundPassesThrough() {
	accountID := uuid.NewString()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateAccount(context.Background(), suite.userID, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_DefaultsLimit() {
	suite.mockAccountRepo.On("ListActiveAccounts", mock.Anything, suite.userID, (*domain.AccountType)(nil), 20, 0).
		Return([]domain.Account{}, nil).Once()

	accounts, err := suite.service.ListAccounts(context.Background(), suite.userID, nil, 0, -5)

	suite.Require().NoError(err)
	suite.Empty(accounts)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
