package dto

import (
	"time"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportFilterQuery holds the optional filters shared by all reports.
type ReportFilterQuery struct {
	CompanyID    *string `form:"companyID"`
	CurrencyCode *string `form:"currencyCode" binding:"omitempty,len=3"`
}

// ToReportFilter converts the bound query filters to the domain filter.
func (q ReportFilterQuery) ToReportFilter() domain.ReportFilter {
	return domain.ReportFilter{
		CompanyID:    q.CompanyID,
		CurrencyCode: q.CurrencyCode,
	}
}

// AsOfReportQuery holds the query parameters for point-in-time reports.
type AsOfReportQuery struct {
	ReportFilterQuery
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// PeriodReportQuery holds the query parameters for period reports.
type PeriodReportQuery struct {
	ReportFilterQuery
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// TrialBalanceResponse wraps a trial balance report.
type TrialBalanceResponse struct {
	AsOf        time.Time                `json:"asOf"`
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
}

// ProfitAndLossResponse wraps a P&L report.
type ProfitAndLossResponse struct {
	From          time.Time              `json:"from"`
	To            time.Time              `json:"to"`
	Income        []domain.AccountAmount `json:"income"`
	Expenses      []domain.AccountAmount `json:"expenses"`
	TotalIncome   decimal.Decimal        `json:"totalIncome"`
	TotalExpenses decimal.Decimal        `json:"totalExpenses"`
	NetProfit     decimal.Decimal        `json:"netProfit"`
}

// BalanceSheetResponse wraps a balance sheet report.
type BalanceSheetResponse struct {
	AsOf             time.Time              `json:"asOf"`
	Assets           []domain.AccountAmount `json:"assets"`
	Liabilities      []domain.AccountAmount `json:"liabilities"`
	Equity           []domain.AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal        `json:"totalAssets"`
	TotalLiabilities decimal.Decimal        `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal        `json:"totalEquity"`
}

// ToTrialBalanceResponse builds the trial balance response with totals.
func ToTrialBalanceResponse(rows []domain.TrialBalanceRow, asOf time.Time) TrialBalanceResponse {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}
	return TrialBalanceResponse{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}
}

// ToProfitAndLossResponse builds the P&L response from the domain report.
func ToProfitAndLossResponse(report *domain.PAndLReport, from, to time.Time) ProfitAndLossResponse {
	totalIncome := decimal.Zero
	for _, r := range report.Income {
		totalIncome = totalIncome.Add(r.NetAmount)
	}
	totalExpenses := decimal.Zero
	for _, e := range report.Expenses {
		totalExpenses = totalExpenses.Add(e.NetAmount)
	}
	return ProfitAndLossResponse{
		From:          from,
		To:            to,
		Income:        report.Income,
		Expenses:      report.Expenses,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetProfit:     report.NetProfit,
	}
}

// ToBalanceSheetResponse builds the balance sheet response from the domain report.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport, asOf time.Time) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:             asOf,
		Assets:           report.Assets,
		Liabilities:      report.Liabilities,
		Equity:           report.Equity,
		TotalAssets:      report.TotalAssets,
		TotalLiabilities: report.TotalLiabilities,
		TotalEquity:      report.TotalEquity,
	}
}
