package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jsmitterc/remesafe/internal/apperrors"
	"github.com/jsmitterc/remesafe/internal/core/domain"
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	portssvc "github.com/jsmitterc/remesafe/internal/core/ports/services"
	"github.com/jsmitterc/remesafe/internal/core/services"
	"github.com/jsmitterc/remesafe/internal/dto"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.LedgerEntry, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListIncompleteEntries(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountCode, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, accountCode string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountCode, from, to, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, entry, balanceChanges)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveReconciliation(ctx context.Context, entry domain.LedgerEntry, accountID string, observedBalance, newBalance decimal.Decimal) error {
	args := m.Called(ctx, entry, accountID, observedBalance, newBalance)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveStatementImport(ctx context.Context, entries []domain.LedgerEntry, accountID string, observedBalance, closingBalance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, entries, accountID, observedBalance, closingBalance, userID, now)
	return args.Error(0)
}

func (m *MockLedgerRepository) AssignEntryLeg(ctx context.Context, entryID string, side domain.EntrySide, accountCode string, userID string, now time.Time) error {
	args := m.Called(ctx, entryID, side, accountCode, userID, now)
	return args.Error(0)
}

func (m *MockLedgerRepository) TagClassification(ctx context.Context, entryIDs []string, classification domain.Classification, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, entryIDs, classification, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) DeleteEntriesForOwner(ctx context.Context, entryIDs []string, userID string) (int64, error) {
	args := m.Called(ctx, entryIDs, userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListActiveAccounts(ctx context.Context, userID string, accountType *domain.AccountType, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, userID, accountType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, changes, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, balance, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo   *MockLedgerRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.LedgerSvcFacade
	userID           string
	checkingAccount  domain.Account
	creditCard       domain.Account
	salaryAccount    domain.Account
	groceriesAccount domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockAccountRepo)

	suite.userID = uuid.NewString()

	suite.checkingAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1000",
		Alias:        "Checking",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		UserID:       suite.userID,
		IsActive:     true,
		Balance:      decimal.NewFromInt(500),
	}
	suite.creditCard = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "2000",
		Alias:        "Credit Card",
		AccountType:  domain.Liability,
		CurrencyCode: "USD",
		UserID:       suite.userID,
		IsActive:     true,
		Balance:      decimal.NewFromInt(200),
	}
	suite.salaryAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "4000",
		Alias:        "Salary",
		AccountType:  domain.Income,
		CurrencyCode: "USD",
		UserID:       suite.userID,
		IsActive:     true,
	}
	suite.groceriesAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "5000",
		Alias:        "Groceries",
		AccountType:  domain.Expense,
		CurrencyCode: "USD",
		UserID:       suite.userID,
		IsActive:     true,
	}
}

func (suite *LedgerServiceTestSuite) account(a domain.Account) *domain.Account {
	copied := a
	return &copied
}

// --- CreateEntry ---

func (suite *LedgerServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		DebitAccountCode:  suite.groceriesAccount.Code,
		CreditAccountCode: suite.checkingAccount.Code,
		Amount:            decimal.NewFromInt(75),
		EntryDate:         time.Now(),
		Description:       "Weekly groceries",
		CurrencyCode:      "USD",
	}

	accountsMap := map[string]domain.Account{
		suite.groceriesAccount.Code: suite.groceriesAccount,
		suite.checkingAccount.Code:  suite.checkingAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.groceriesAccount.Code, suite.checkingAccount.Code}).Return(accountsMap, nil).Once()

	var savedChanges map[string]decimal.Decimal
	suite.mockLedgerRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedChanges = args.Get(2).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(suite.groceriesAccount.Code, entry.DebitAccount.Code())
	suite.Equal(suite.checkingAccount.Code, entry.CreditAccount.Code())
	suite.False(entry.Incomplete())
	suite.Equal(domain.Posted, entry.Status)

	// Debiting an expense increases it; crediting an asset decreases it.
	suite.True(savedChanges[suite.groceriesAccount.Code].Equal(decimal.NewFromInt(75)))
	suite.True(savedChanges[suite.checkingAccount.Code].Equal(decimal.NewFromInt(-75)))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_SameAccountBothLegs() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		DebitAccountCode:  suite.checkingAccount.Code,
		CreditAccountCode: suite.checkingAccount.Code,
		Amount:            decimal.NewFromInt(10),
		EntryDate:         time.Now(),
		CurrencyCode:      "USD",
	}

	_, err := suite.service.CreateEntry(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.groceriesAccount
	inactive.IsActive = false
	req := dto.CreateEntryRequest{
		DebitAccountCode:  inactive.Code,
		CreditAccountCode: suite.checkingAccount.Code,
		Amount:            decimal.NewFromInt(20),
		EntryDate:         time.Now(),
		CurrencyCode:      "USD",
	}

	accountsMap := map[string]domain.Account{
		inactive.Code:              inactive,
		suite.checkingAccount.Code: suite.checkingAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(accountsMap, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_OtherUsersAccount() {
	ctx := context.Background()
	foreign := suite.checkingAccount
	foreign.UserID = uuid.NewString()
	req := dto.CreateEntryRequest{
		DebitAccountCode:  suite.groceriesAccount.Code,
		CreditAccountCode: foreign.Code,
		Amount:            decimal.NewFromInt(20),
		EntryDate:         time.Now(),
		CurrencyCode:      "USD",
	}

	accountsMap := map[string]domain.Account{
		suite.groceriesAccount.Code: suite.groceriesAccount,
		foreign.Code:                foreign,
	}
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(accountsMap, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Reconcile ---

func (suite *LedgerServiceTestSuite) TestReconcile_WithinTolerance_NoEntry() {
	ctx := context.Background()
	req := dto.ReconcileRequest{
		BankBalance: decimal.RequireFromString("500.005"),
		Date:        time.Now(),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	entry, err := suite.service.Reconcile(ctx, suite.userID, suite.checkingAccount.AccountID, req)

	suite.Require().NoError(err)
	suite.Nil(entry)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReconcile_AssetShortfall_DebitLeg() {
	ctx := context.Background()
	bankBalance := decimal.NewFromInt(620)
	req := dto.ReconcileRequest{
		BankBalance: bankBalance,
		Date:        time.Now(),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	var savedEntry domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveReconciliation", ctx, mock.AnythingOfType("domain.LedgerEntry"), suite.checkingAccount.AccountID, suite.checkingAccount.Balance, bankBalance).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.LedgerEntry)
		}).Return(nil).Once()

	entry, err := suite.service.Reconcile(ctx, suite.userID, suite.checkingAccount.AccountID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)

	// An asset balance increases on the debit side, so the account takes the
	// debit leg and the credit leg stays unassigned.
	suite.Equal(suite.checkingAccount.Code, savedEntry.DebitAccount.Code())
	suite.False(savedEntry.CreditAccount.Assigned())
	suite.True(savedEntry.Debit.Equal(decimal.NewFromInt(120)))
	suite.True(savedEntry.Credit.Equal(decimal.NewFromInt(120)))
	suite.True(savedEntry.BalanceDebit.Equal(bankBalance))
	suite.True(savedEntry.Conciled)
	suite.True(savedEntry.Incomplete())

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReconcile_AssetExcess_CreditLeg() {
	ctx := context.Background()
	bankBalance := decimal.NewFromInt(450)
	req := dto.ReconcileRequest{
		BankBalance: bankBalance,
		Date:        time.Now(),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	var savedEntry domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveReconciliation", ctx, mock.AnythingOfType("domain.LedgerEntry"), suite.checkingAccount.AccountID, suite.checkingAccount.Balance, bankBalance).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.LedgerEntry)
		}).Return(nil).Once()

	_, err := suite.service.Reconcile(ctx, suite.userID, suite.checkingAccount.AccountID, req)

	suite.Require().NoError(err)
	suite.Equal(suite.checkingAccount.Code, savedEntry.CreditAccount.Code())
	suite.False(savedEntry.DebitAccount.Assigned())
	suite.True(savedEntry.Debit.Equal(decimal.NewFromInt(50)))
	suite.True(savedEntry.BalanceCredit.Equal(bankBalance))
}

func (suite *LedgerServiceTestSuite) TestReconcile_LiabilityIncrease_CreditLeg() {
	ctx := context.Background()
	bankBalance := decimal.NewFromInt(260)
	req := dto.ReconcileRequest{
		BankBalance: bankBalance,
		Date:        time.Now(),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.creditCard.AccountID).Return(suite.account(suite.creditCard), nil).Once()

	var savedEntry domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveReconciliation", ctx, mock.AnythingOfType("domain.LedgerEntry"), suite.creditCard.AccountID, suite.creditCard.Balance, bankBalance).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.LedgerEntry)
		}).Return(nil).Once()

	_, err := suite.service.Reconcile(ctx, suite.userID, suite.creditCard.AccountID, req)

	suite.Require().NoError(err)
	// A liability grows on the credit side.
	suite.Equal(suite.creditCard.Code, savedEntry.CreditAccount.Code())
	suite.False(savedEntry.DebitAccount.Assigned())
	suite.True(savedEntry.Debit.Equal(decimal.NewFromInt(60)))
}

func (suite *LedgerServiceTestSuite) TestReconcile_OtherUsersAccount() {
	ctx := context.Background()
	foreign := suite.checkingAccount
	foreign.UserID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, foreign.AccountID).Return(suite.account(foreign), nil).Once()

	_, err := suite.service.Reconcile(ctx, suite.userID, foreign.AccountID, dto.ReconcileRequest{
		BankBalance: decimal.NewFromInt(100),
		Date:        time.Now(),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReconcile_MissingAccountType() {
	ctx := context.Background()
	untyped := suite.checkingAccount
	untyped.AccountType = ""

	suite.mockAccountRepo.On("FindAccountByID", ctx, untyped.AccountID).Return(suite.account(untyped), nil).Once()

	_, err := suite.service.Reconcile(ctx, suite.userID, untyped.AccountID, dto.ReconcileRequest{
		BankBalance: decimal.NewFromInt(900),
		Date:        time.Now(),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestReconcile_StaleBalance_Conflict() {
	ctx := context.Background()
	bankBalance := decimal.NewFromInt(620)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	// The repository locks the account row and rejects the adjustment when the
	// balance moved between the service's read and the write. The balance the
	// service read is handed down so the repository can verify it under lock.
	suite.mockLedgerRepo.On("SaveReconciliation", ctx, mock.AnythingOfType("domain.LedgerEntry"), suite.checkingAccount.AccountID, suite.checkingAccount.Balance, bankBalance).
		Return(apperrors.ErrConflict).Once()

	_, err := suite.service.Reconcile(ctx, suite.userID, suite.checkingAccount.AccountID, dto.ReconcileRequest{
		BankBalance: bankBalance,
		Date:        time.Now(),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- ImportStatement ---

func (suite *LedgerServiceTestSuite) statement(opening, closing decimal.Decimal, txns ...domain.StatementTransaction) domain.Statement {
	return domain.Statement{
		AccountID:      suite.checkingAccount.AccountID,
		StatementDate:  time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		OpeningBalance: opening,
		ClosingBalance: closing,
		Transactions:   txns,
	}
}

func (suite *LedgerServiceTestSuite) TestImportStatement_UnbalancedRejectedBeforeMutation() {
	ctx := context.Background()
	stmt := suite.statement(decimal.NewFromInt(500), decimal.NewFromInt(700),
		domain.StatementTransaction{Date: time.Now(), Amount: decimal.NewFromInt(100), Side: domain.Debit},
	)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	_, err := suite.service.ImportStatement(ctx, suite.userID, stmt)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "700")
	suite.Contains(err.Error(), "600")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveStatementImport", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestImportStatement_Success() {
	ctx := context.Background()
	// Stored balance matches opening; no opening adjustment expected.
	stmt := suite.statement(decimal.NewFromInt(500), decimal.NewFromInt(620),
		domain.StatementTransaction{Date: time.Now(), Description: "Deposit", Amount: decimal.NewFromInt(200), Side: domain.Debit},
		domain.StatementTransaction{Date: time.Now(), Description: "ATM withdrawal", Amount: decimal.NewFromInt(-80), Side: domain.Credit},
	)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	var savedEntries []domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveStatementImport", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), suite.checkingAccount.AccountID, suite.checkingAccount.Balance, stmt.ClosingBalance, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.LedgerEntry)
		}).Return(nil).Once()

	entries, err := suite.service.ImportStatement(ctx, suite.userID, stmt)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Require().Len(savedEntries, 2)

	deposit := savedEntries[0]
	suite.Equal(suite.checkingAccount.Code, deposit.DebitAccount.Code())
	suite.False(deposit.CreditAccount.Assigned())
	suite.True(deposit.Incomplete())
	suite.True(deposit.Conciled)
	suite.True(deposit.Debit.Equal(decimal.NewFromInt(200)))
	suite.True(deposit.BalanceDebit.Equal(decimal.NewFromInt(700)))

	withdrawal := savedEntries[1]
	suite.Equal(suite.checkingAccount.Code, withdrawal.CreditAccount.Code())
	suite.False(withdrawal.DebitAccount.Assigned())
	suite.True(withdrawal.Credit.Equal(decimal.NewFromInt(80)))
	// The running snapshot on the last row lands on the closing balance.
	suite.True(withdrawal.BalanceCredit.Equal(stmt.ClosingBalance))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestImportStatement_OpeningAdjustmentSynthesized() {
	ctx := context.Background()
	// Stored balance is 500 but the statement opens at 530.
	stmt := suite.statement(decimal.NewFromInt(530), decimal.NewFromInt(630),
		domain.StatementTransaction{Date: time.Now(), Amount: decimal.NewFromInt(100), Side: domain.Debit},
	)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	var savedEntries []domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveStatementImport", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), suite.checkingAccount.AccountID, suite.checkingAccount.Balance, stmt.ClosingBalance, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.LedgerEntry)
		}).Return(nil).Once()

	entries, err := suite.service.ImportStatement(ctx, suite.userID, stmt)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	adjustment := savedEntries[0]
	suite.True(adjustment.Conciled)
	suite.Equal(suite.checkingAccount.Code, adjustment.DebitAccount.Code())
	suite.True(adjustment.Debit.Equal(decimal.NewFromInt(30)))
	suite.True(adjustment.BalanceDebit.Equal(decimal.NewFromInt(530)))

	suite.True(savedEntries[1].BalanceDebit.Equal(stmt.ClosingBalance))
}

func (suite *LedgerServiceTestSuite) TestImportStatement_ReplayPostsAgain() {
	ctx := context.Background()
	stmt := suite.statement(decimal.NewFromInt(500), decimal.NewFromInt(600),
		domain.StatementTransaction{Date: time.Now(), Amount: decimal.NewFromInt(100), Side: domain.Debit},
	)

	first := suite.account(suite.checkingAccount)
	second := suite.account(suite.checkingAccount)
	second.Balance = decimal.NewFromInt(600)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(first, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(second, nil).Once()
	suite.mockLedgerRepo.On("SaveStatementImport", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), suite.checkingAccount.AccountID, first.Balance, stmt.ClosingBalance, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveStatementImport", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), suite.checkingAccount.AccountID, second.Balance, stmt.ClosingBalance, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.ImportStatement(ctx, suite.userID, stmt)
	suite.Require().NoError(err)

	// There is no deduplication key: replaying the same statement posts its
	// rows a second time (plus an opening adjustment back to 500).
	replayed, err := suite.service.ImportStatement(ctx, suite.userID, stmt)
	suite.Require().NoError(err)
	suite.Len(replayed, 2)

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestImportStatement_SideContradictsSign() {
	ctx := context.Background()
	// Continuity alone would pass here (500 + 500 = 1000), but a debit
	// decreases a liability balance, so a DEBIT row carrying a positive
	// amount is contradictory and must be rejected before anything posts.
	stmt := domain.Statement{
		AccountID:      suite.creditCard.AccountID,
		StatementDate:  time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		OpeningBalance: decimal.NewFromInt(500),
		ClosingBalance: decimal.NewFromInt(1000),
		Transactions: []domain.StatementTransaction{
			{Date: time.Now(), Description: "Cash advance", Amount: decimal.NewFromInt(500), Side: domain.Debit},
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.creditCard.AccountID).Return(suite.account(suite.creditCard), nil).Once()

	_, err := suite.service.ImportStatement(ctx, suite.userID, stmt)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveStatementImport", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestImportStatement_NoTransactions_BalanceStillOverridden() {
	ctx := context.Background()
	stmt := suite.statement(decimal.NewFromInt(500), decimal.NewFromInt(500))

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.checkingAccount.AccountID).Return(suite.account(suite.checkingAccount), nil).Once()

	// Even with nothing to post, the closing balance is still written through.
	var savedEntries []domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveStatementImport", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), suite.checkingAccount.AccountID, suite.checkingAccount.Balance, stmt.ClosingBalance, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.LedgerEntry)
		}).Return(nil).Once()

	entries, err := suite.service.ImportStatement(ctx, suite.userID, stmt)

	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.Empty(savedEntries)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- AssignAccount ---

func (suite *LedgerServiceTestSuite) incompleteEntry() *domain.LedgerEntry {
	return &domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		DebitAccount:  domain.AssignedRef(suite.checkingAccount.Code),
		CreditAccount: domain.Unassigned,
		Debit:         decimal.NewFromInt(40),
		Credit:        decimal.NewFromInt(40),
		Status:        domain.Posted,
		CurrencyCode:  "USD",
	}
}

func (suite *LedgerServiceTestSuite) TestAssignAccount_Success() {
	ctx := context.Background()
	entry := suite.incompleteEntry()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.salaryAccount.Code).Return(suite.account(suite.salaryAccount), nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockLedgerRepo.On("AssignEntryLeg", ctx, entry.EntryID, domain.Credit, suite.salaryAccount.Code, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.AssignAccount(ctx, suite.userID, entry.EntryID, suite.salaryAccount.Code, domain.Credit)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestAssignAccount_LegAlreadyFilled() {
	ctx := context.Background()
	entry := suite.incompleteEntry()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.salaryAccount.Code).Return(suite.account(suite.salaryAccount), nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.AssignAccount(ctx, suite.userID, entry.EntryID, suite.salaryAccount.Code, domain.Debit)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AssignEntryLeg", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAssignAccount_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.salaryAccount
	inactive.IsActive = false

	suite.mockAccountRepo.On("FindAccountByCode", ctx, inactive.Code).Return(suite.account(inactive), nil).Once()

	err := suite.service.AssignAccount(ctx, suite.userID, uuid.NewString(), inactive.Code, domain.Credit)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerServiceTestSuite) TestAssignAccount_OtherUsersAccount() {
	ctx := context.Background()
	foreign := suite.salaryAccount
	foreign.UserID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, foreign.Code).Return(suite.account(foreign), nil).Once()

	err := suite.service.AssignAccount(ctx, suite.userID, uuid.NewString(), foreign.Code, domain.Credit)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- BulkAssign / SmartBulkAssign ---

func (suite *LedgerServiceTestSuite) TestBulkAssign_SkipsFilledLegs() {
	ctx := context.Background()
	open := suite.incompleteEntry()
	filled := suite.incompleteEntry()
	filled.CreditAccount = domain.AssignedRef(suite.salaryAccount.Code)
	entryIDs := []string{open.EntryID, filled.EntryID}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.salaryAccount.Code).Return(suite.account(suite.salaryAccount), nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByIDs", ctx, entryIDs).Return(map[string]domain.LedgerEntry{
		open.EntryID:   *open,
		filled.EntryID: *filled,
	}, nil).Once()
	suite.mockLedgerRepo.On("AssignEntryLeg", ctx, open.EntryID, domain.Credit, suite.salaryAccount.Code, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.BulkAssign(ctx, suite.userID, entryIDs, suite.salaryAccount.Code, domain.Credit)

	suite.Require().NoError(err)
	suite.Equal(1, result.AssignedCount)
	suite.Equal(1, result.SkippedCount)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestBulkAssign_LostRaceCountsAsSkipped() {
	ctx := context.Background()
	open := suite.incompleteEntry()
	entryIDs := []string{open.EntryID}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.salaryAccount.Code).Return(suite.account(suite.salaryAccount), nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByIDs", ctx, entryIDs).Return(map[string]domain.LedgerEntry{
		open.EntryID: *open,
	}, nil).Once()
	suite.mockLedgerRepo.On("AssignEntryLeg", ctx, open.EntryID, domain.Credit, suite.salaryAccount.Code, suite.userID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict).Once()

	result, err := suite.service.BulkAssign(ctx, suite.userID, entryIDs, suite.salaryAccount.Code, domain.Credit)

	suite.Require().NoError(err)
	suite.Equal(0, result.AssignedCount)
	suite.Equal(1, result.SkippedCount)
}

func (suite *LedgerServiceTestSuite) TestSmartBulkAssign_FillsOnlyEmptyLeg() {
	ctx := context.Background()
	missingCredit := suite.incompleteEntry()
	missingDebit := &domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		CreditAccount: domain.AssignedRef(suite.checkingAccount.Code),
		Debit:         decimal.NewFromInt(15),
		Credit:        decimal.NewFromInt(15),
		Status:        domain.Posted,
		CurrencyCode:  "USD",
	}
	complete := suite.incompleteEntry()
	complete.CreditAccount = domain.AssignedRef(suite.salaryAccount.Code)
	doublyOpen := &domain.LedgerEntry{EntryID: uuid.NewString(), Status: domain.Posted}

	entryIDs := []string{missingCredit.EntryID, missingDebit.EntryID, complete.EntryID, doublyOpen.EntryID}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.groceriesAccount.Code).Return(suite.account(suite.groceriesAccount), nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByIDs", ctx, entryIDs).Return(map[string]domain.LedgerEntry{
		missingCredit.EntryID: *missingCredit,
		missingDebit.EntryID:  *missingDebit,
		complete.EntryID:      *complete,
		doublyOpen.EntryID:    *doublyOpen,
	}, nil).Once()
	suite.mockLedgerRepo.On("AssignEntryLeg", ctx, missingCredit.EntryID, domain.Credit, suite.groceriesAccount.Code, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLedgerRepo.On("AssignEntryLeg", ctx, missingDebit.EntryID, domain.Debit, suite.groceriesAccount.Code, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.SmartBulkAssign(ctx, suite.userID, entryIDs, suite.groceriesAccount.Code)

	suite.Require().NoError(err)
	suite.Equal(2, result.AssignedCount)
	suite.Equal(2, result.SkippedCount)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- Listings and classification ---

func (suite *LedgerServiceTestSuite) TestListIncompleteEntries_ClassifiesFromPerspective() {
	ctx := context.Background()
	// Credit on checking, counter-leg expense: a refund classifies as income.
	refund := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		DebitAccount:  domain.AssignedRef(suite.groceriesAccount.Code),
		CreditAccount: domain.AssignedRef(suite.checkingAccount.Code),
		Debit:         decimal.NewFromInt(12),
		Credit:        decimal.NewFromInt(12),
		Status:        domain.Posted,
	}
	unresolved := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		DebitAccount: domain.AssignedRef(suite.checkingAccount.Code),
		Debit:        decimal.NewFromInt(30),
		Credit:       decimal.NewFromInt(30),
		Status:       domain.Posted,
	}
	entries := []domain.LedgerEntry{refund, unresolved}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.checkingAccount.Code).Return(suite.account(suite.checkingAccount), nil).Once()
	suite.mockLedgerRepo.On("ListIncompleteEntries", ctx, suite.checkingAccount.Code, 20, (*string)(nil)).Return(entries, nil, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.groceriesAccount.Code: suite.groceriesAccount,
		suite.checkingAccount.Code:  suite.checkingAccount,
	}, nil).Once()

	resp, err := suite.service.ListIncompleteEntries(ctx, suite.userID, suite.checkingAccount.Code, dto.ListEntriesParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 2)
	// Checking was credited against an expense account: a refund, income.
	suite.Equal(domain.ClassIncome, resp.Entries[0].Classification)
	// A missing counter-leg classifies as a transfer until assigned.
	suite.Equal(domain.ClassTransfer, resp.Entries[1].Classification)
	suite.True(resp.Entries[1].Incomplete)
}

func (suite *LedgerServiceTestSuite) TestGetEntry_NotVisibleToStranger() {
	ctx := context.Background()
	entry := suite.incompleteEntry()

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.checkingAccount.Code}).Return(map[string]domain.Account{
		suite.checkingAccount.Code: suite.checkingAccount,
	}, nil).Once()

	_, err := suite.service.GetEntry(ctx, uuid.NewString(), entry.EntryID, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- DeleteEntries / BulkClassify ---

func (suite *LedgerServiceTestSuite) TestDeleteEntries_ReportsCount() {
	ctx := context.Background()
	entryIDs := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

	suite.mockLedgerRepo.On("DeleteEntriesForOwner", ctx, entryIDs, suite.userID).Return(int64(2), nil).Once()

	deleted, err := suite.service.DeleteEntries(ctx, suite.userID, entryIDs)

	suite.Require().NoError(err)
	suite.Equal(int64(2), deleted)
}

func (suite *LedgerServiceTestSuite) TestBulkClassify_TagsEntries() {
	ctx := context.Background()
	entryIDs := []string{uuid.NewString(), uuid.NewString()}

	suite.mockLedgerRepo.On("TagClassification", ctx, entryIDs, domain.ClassExpense, suite.userID, mock.AnythingOfType("time.Time")).Return(int64(2), nil).Once()

	updated, err := suite.service.BulkClassify(ctx, suite.userID, entryIDs, domain.ClassExpense)

	suite.Require().NoError(err)
	suite.Equal(int64(2), updated)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
