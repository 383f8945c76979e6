package repositories

import (
	"context"
	"time"

	"github.com/jsmitterc/remesafe/internal/core/domain"
)

// ReportingRepository defines the read-only aggregation queries behind the
// financial reports. Entity and currency filters restrict the entry join,
// never the account set.
type ReportingRepository interface {
	// GetTrialBalanceData returns per-account debit and credit totals as of a
	// date, covering every active account of the user.
	GetTrialBalanceData(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLossData returns net income and expense account amounts for
	// a period. Accounts with zero net activity in the period are excluded.
	GetProfitAndLossData(ctx context.Context, userID string, from, to time.Time, filter domain.ReportFilter) (income []domain.AccountAmount, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData returns net asset, liability and equity account
	// amounts as of a date, covering every active account of the user.
	GetBalanceSheetData(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) (assets, liabilities, equity []domain.AccountAmount, err error)
}
