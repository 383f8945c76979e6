package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	portssvc "github.com/jsmitterc/remesafe/internal/core/ports/services"
)

// reportingService assembles the financial reports from the aggregation
// queries. It never mutates ledger state.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) TrialBalance(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) ([]domain.TrialBalanceRow, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, userID, asOf, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	return rows, nil
}

func (s *reportingService) ProfitAndLoss(ctx context.Context, userID string, from, to time.Time, filter domain.ReportFilter) (*domain.PAndLReport, error) {
	income, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, userID, from, to, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build profit and loss: %w", err)
	}

	report := &domain.PAndLReport{
		Income:   income,
		Expenses: expenses,
	}
	report.NetProfit = sumAmounts(income).Sub(sumAmounts(expenses))
	return report, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) (*domain.BalanceSheetReport, error) {
	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, userID, asOf, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build balance sheet: %w", err)
	}

	return &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      sumAmounts(assets),
		TotalLiabilities: sumAmounts(liabilities),
		TotalEquity:      sumAmounts(equity),
	}, nil
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}
