package services

import (
	"context"
	"time"

	"github.com/jsmitterc/remesafe/internal/core/domain"
)

// ReportingSvcFacade exposes the aggregate reports. All reports are pure
// reads; none of them mutates ledger state.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) ([]domain.TrialBalanceRow, error)
	ProfitAndLoss(ctx context.Context, userID string, from, to time.Time, filter domain.ReportFilter) (*domain.PAndLReport, error)
	BalanceSheet(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) (*domain.BalanceSheetReport, error)
}
