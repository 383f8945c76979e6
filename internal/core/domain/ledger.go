package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates which side of a double entry a leg sits on.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// EntryStatus indicates the state of a ledger entry.
type EntryStatus string

const (
	Posted EntryStatus = "POSTED"
)

// Classification is the derived nature of an entry from the perspective of a
// primary account: money arriving, money leaving, or a movement between
// balance-sheet accounts.
type Classification string

const (
	ClassIncome   Classification = "income"
	ClassExpense  Classification = "expense"
	ClassTransfer Classification = "transfer"
)

// AccountRef is a reference from an entry leg to an account code. The zero
// value is Unassigned: the leg has not been given a counter-account yet.
// This replaces the legacy '0' string sentinel, so a real account code can
// never collide with "unassigned".
type AccountRef struct {
	code string
}

// Unassigned is the AccountRef of a leg without an account.
var Unassigned = AccountRef{}

// ReservedUnassignedCode is the storage sentinel for an unassigned leg.
// No account may take it as its ledger code.
const ReservedUnassignedCode = "0"

// AssignedRef creates a reference to the given account code.
func AssignedRef(code string) AccountRef {
	return AccountRef{code: code}
}

// Assigned reports whether the leg references an account.
func (r AccountRef) Assigned() bool {
	return r.code != ""
}

// Code returns the referenced account code, or "" when unassigned.
func (r AccountRef) Code() string {
	return r.code
}

func (r AccountRef) String() string {
	if !r.Assigned() {
		return "<unassigned>"
	}
	return r.code
}

// MarshalJSON renders the account code, or null for an unassigned leg.
func (r AccountRef) MarshalJSON() ([]byte, error) {
	if !r.Assigned() {
		return []byte("null"), nil
	}
	return json.Marshal(r.code)
}

// UnmarshalJSON accepts a code string, null, or "" (both mean unassigned).
func (r *AccountRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Unassigned
		return nil
	}
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	if code == "" {
		*r = Unassigned
		return nil
	}
	*r = AssignedRef(code)
	return nil
}

// LedgerEntry represents one double-entry posting: a debit leg and a credit
// leg of equal magnitude. Either leg may be unassigned, in which case the
// entry is incomplete and awaits account assignment.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`        // Primary key (UUID)
	DebitAccount   AccountRef      `json:"debitAccount"`   // Account code on the debit leg
	CreditAccount  AccountRef      `json:"creditAccount"`  // Account code on the credit leg
	Debit          decimal.Decimal `json:"debit"`          // Debit leg amount (positive)
	Credit         decimal.Decimal `json:"credit"`         // Credit leg amount (positive, equals Debit)
	EntryDate      time.Time       `json:"entryDate"`      // Date the event occurred
	AccountingDate time.Time       `json:"accountingDate"` // Creation timestamp
	Status         EntryStatus     `json:"status"`
	Conciled       bool            `json:"conciled"` // True for reconciliation-origin entries
	CompanyID      string          `json:"companyID"`
	CurrencyCode   string          `json:"currencyCode"`
	Description    string          `json:"description"`
	BalanceDebit   decimal.Decimal `json:"balanceDebit"`  // Running balance snapshot on the debit leg
	BalanceCredit  decimal.Decimal `json:"balanceCredit"` // Running balance snapshot on the credit leg
	Classification Classification  `json:"classification,omitempty"`
	AuditFields
}

// Incomplete reports whether the entry is still missing one (or both) legs.
func (e LedgerEntry) Incomplete() bool {
	return !e.DebitAccount.Assigned() || !e.CreditAccount.Assigned()
}

// Leg returns the account reference on the given side.
func (e LedgerEntry) Leg(side EntrySide) AccountRef {
	if side == Debit {
		return e.DebitAccount
	}
	return e.CreditAccount
}

// SideOf returns the role the given account code plays in this entry, and
// whether the code appears on either leg at all.
func (e LedgerEntry) SideOf(code string) (EntrySide, bool) {
	if e.DebitAccount.Assigned() && e.DebitAccount.Code() == code {
		return Debit, true
	}
	if e.CreditAccount.Assigned() && e.CreditAccount.Code() == code {
		return Credit, true
	}
	return "", false
}
