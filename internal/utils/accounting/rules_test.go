package accounting_test

import (
	"testing"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/jsmitterc/remesafe/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		side      domain.EntrySide
		otherType domain.AccountType
		want      domain.Classification
	}{
		{"credit against income is income", domain.Credit, domain.Income, domain.ClassIncome},
		{"credit against expense is income (refund)", domain.Credit, domain.Expense, domain.ClassIncome},
		{"credit against asset is transfer", domain.Credit, domain.Asset, domain.ClassTransfer},
		{"credit against liability is transfer", domain.Credit, domain.Liability, domain.ClassTransfer},
		{"credit against equity is transfer", domain.Credit, domain.Equity, domain.ClassTransfer},
		{"credit with unassigned other leg is transfer", domain.Credit, "", domain.ClassTransfer},
		{"debit against expense is expense", domain.Debit, domain.Expense, domain.ClassExpense},
		{"debit against income is expense (income adjustment)", domain.Debit, domain.Income, domain.ClassExpense},
		{"debit against asset is transfer", domain.Debit, domain.Asset, domain.ClassTransfer},
		{"debit against liability is transfer", domain.Debit, domain.Liability, domain.ClassTransfer},
		{"debit against equity is transfer", domain.Debit, domain.Equity, domain.ClassTransfer},
		{"debit with unassigned other leg is transfer", domain.Debit, "", domain.ClassTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.Classify(tt.side, tt.otherType))
		})
	}
}

func TestDebitIncreasesBalance(t *testing.T) {
	increasing := map[domain.AccountType]bool{
		domain.Asset:     true,
		domain.Expense:   true,
		domain.Liability: false,
		domain.Equity:    false,
		domain.Income:    false,
	}
	for accountType, want := range increasing {
		assert.Equal(t, want, accounting.DebitIncreasesBalance(accountType), string(accountType))
	}
}

func TestSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		side        domain.EntrySide
		accountType domain.AccountType
		want        decimal.Decimal
	}{
		{domain.Debit, domain.Asset, hundred},
		{domain.Credit, domain.Asset, hundred.Neg()},
		{domain.Debit, domain.Expense, hundred},
		{domain.Credit, domain.Expense, hundred.Neg()},
		{domain.Debit, domain.Liability, hundred.Neg()},
		{domain.Credit, domain.Liability, hundred},
		{domain.Debit, domain.Equity, hundred.Neg()},
		{domain.Credit, domain.Equity, hundred},
		{domain.Debit, domain.Income, hundred.Neg()},
		{domain.Credit, domain.Income, hundred},
	}

	for _, tt := range tests {
		got, err := accounting.SignedAmount(tt.side, tt.accountType, hundred)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "%s %s: want %s got %s", tt.side, tt.accountType, tt.want, got)
	}
}

func TestSignedAmountUnknownType(t *testing.T) {
	_, err := accounting.SignedAmount(domain.Debit, "WEIRD", decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestAdjustmentSide(t *testing.T) {
	up := decimal.NewFromInt(50)
	down := decimal.NewFromInt(-50)

	// Raising an asset balance needs a debit; lowering it needs a credit.
	assert.Equal(t, domain.Debit, accounting.AdjustmentSide(domain.Asset, up))
	assert.Equal(t, domain.Credit, accounting.AdjustmentSide(domain.Asset, down))

	// Liabilities grow on the credit side.
	assert.Equal(t, domain.Credit, accounting.AdjustmentSide(domain.Liability, up))
	assert.Equal(t, domain.Debit, accounting.AdjustmentSide(domain.Liability, down))
}

func TestWithinTolerance(t *testing.T) {
	a := decimal.RequireFromString("100.005")
	b := decimal.NewFromInt(100)
	assert.True(t, accounting.WithinTolerance(a, b))
	assert.True(t, accounting.WithinTolerance(b, a))
	assert.False(t, accounting.WithinTolerance(decimal.RequireFromString("100.01"), b))
}
