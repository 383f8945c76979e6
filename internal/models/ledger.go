package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnassignedLeg is the legacy column sentinel for an entry leg without an
// account. It only exists at the storage layer; the domain uses AccountRef.
const UnassignedLeg = "0"

// LedgerEntry is the ledger_entries table row shape. Leg columns hold an
// account code or the UnassignedLeg sentinel.
type LedgerEntry struct {
	EntryID        string          `db:"entry_id"`
	DebitAccount   string          `db:"debit_account"`
	CreditAccount  string          `db:"credit_account"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	EntryDate      time.Time       `db:"entry_date"`
	AccountingDate time.Time       `db:"accounting_date"`
	Status         string          `db:"status"`
	Conciled       bool            `db:"conciled"`
	CompanyID      string          `db:"company_id"` // Nullable
	CurrencyCode   string          `db:"currency_code"`
	Description    string          `db:"description"`
	BalanceDebit   decimal.Decimal `db:"balance_debit"`
	BalanceCredit  decimal.Decimal `db:"balance_credit"`
	Classification string          `db:"classification"` // Nullable
	AuditFields
}
