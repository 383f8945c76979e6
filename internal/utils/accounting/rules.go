// Package accounting holds the pure double-entry rules shared by posting,
// reconciliation, statement import and reporting. Keeping them in one place
// prevents sign-convention drift between those paths.
package accounting

import (
	"fmt"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the epsilon for currency comparisons. Differences below it are
// treated as floating-point noise, not real discrepancies.
var Tolerance = decimal.RequireFromString("0.01")

// WithinTolerance reports whether two amounts are equal within Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// DebitIncreasesBalance reports whether a debit leg increases the balance of
// an account of the given type. Asset and expense accounts grow on the debit
// side; liability, equity and income accounts grow on the credit side.
func DebitIncreasesBalance(t domain.AccountType) bool {
	return t == domain.Asset || t == domain.Expense
}

// Classify derives the nature of an entry from the primary account's
// perspective. side is the role the primary account plays; otherType is the
// type of the account on the opposite leg (the zero value when that leg is
// unassigned).
//
// Credit against an income account is income; credit against an expense
// account is also income (a refund). Debit against an expense account is an
// expense; debit against an income account is also an expense (an income
// adjustment). Everything else is a transfer.
func Classify(side domain.EntrySide, otherType domain.AccountType) domain.Classification {
	switch otherType {
	case domain.Income, domain.Expense:
		if side == domain.Credit {
			return domain.ClassIncome
		}
		return domain.ClassExpense
	default:
		return domain.ClassTransfer
	}
}

// SignedAmount applies the correct sign to a leg amount based on account type
// and leg side: the returned value is the delta the leg applies to the
// account's balance.
//
// DEBIT to ASSET/EXPENSE -> positive (+)
// CREDIT to ASSET/EXPENSE -> negative (-)
// DEBIT to LIABILITY/EQUITY/INCOME -> negative (-)
// CREDIT to LIABILITY/EQUITY/INCOME -> positive (+)
func SignedAmount(side domain.EntrySide, accountType domain.AccountType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense, domain.Liability, domain.Equity, domain.Income:
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
	if (side == domain.Debit) == DebitIncreasesBalance(accountType) {
		return amount, nil
	}
	return amount.Neg(), nil
}

// AdjustmentSide decides which leg an account's code takes on a balancing
// adjustment so that posting it moves the stored balance toward the target.
func AdjustmentSide(accountType domain.AccountType, difference decimal.Decimal) domain.EntrySide {
	increase := difference.IsPositive()
	if increase == DebitIncreasesBalance(accountType) {
		return domain.Debit
	}
	return domain.Credit
}
