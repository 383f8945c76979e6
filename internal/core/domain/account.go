package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
// It determines which side of a double entry increases the account's balance.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary key (UUID)
	Code         string          `json:"code"`         // Unique short ledger code, referenced by entry legs
	Alias        string          `json:"alias"`        // Human-readable name
	AccountType  AccountType     `json:"accountType"`  // ASSET, LIABILITY, etc.
	CurrencyCode string          `json:"currencyCode"` // ISO currency of the balance
	UserID       string          `json:"userID"`       // Owning user
	CompanyID    string          `json:"companyID"`    // Optional entity association, empty when none
	IsActive     bool            `json:"isActive"`     // Soft delete flag
	Balance      decimal.Decimal `json:"balance"`      // Authoritative running balance
	AuditFields
}
