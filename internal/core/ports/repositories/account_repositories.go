package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its ledger code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by ledger code.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListActiveAccounts retrieves active accounts for a user, optionally
	// restricted to one account type. Inactive accounts are never returned.
	ListActiveAccounts(ctx context.Context, userID string, accountType *domain.AccountType, limit, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable account fields (alias, company).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount soft-deletes an account.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTxSupport defines account operations that participate in an
// enclosing database transaction, used by ledger posting paths.
type AccountTxSupport interface {
	// FindAccountsByCodesForUpdate retrieves accounts by code and locks the
	// rows for update. Must be called within a transaction.
	FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, codes []string) (map[string]domain.Account, error)

	// FindAccountByIDForUpdate retrieves an account by ID and locks the row
	// for update. Must be called within a transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// ApplyBalanceChangesInTx applies per-account balance deltas within a transaction.
	ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error

	// SetAccountBalanceInTx overrides an account's stored balance within a
	// transaction. Used by reconciliation and statement import, where the
	// bank-declared balance is authoritative rather than derived from legs.
	SetAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTxSupport
}
