package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the account_type column values.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account is the accounts table row shape.
type Account struct {
	AccountID    string          `db:"account_id"`
	Code         string          `db:"code"`
	Alias        string          `db:"alias"`
	AccountType  AccountType     `db:"account_type"`
	CurrencyCode string          `db:"currency_code"`
	UserID       string          `db:"user_id"`
	CompanyID    string          `db:"company_id"` // Nullable
	IsActive     bool            `db:"is_active"`
	Balance      decimal.Decimal `db:"balance"`
	AuditFields
}
