package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	"github.com/jsmitterc/remesafe/internal/models"
)

// legsCTE flattens each entry into its assigned legs. Unassigned legs carry
// the storage sentinel and are excluded; an incomplete entry contributes only
// its known side to the aggregates.
const legsCTE = `
	WITH legs AS (
		SELECT debit_account AS code, 'DEBIT' AS side, debit AS amount,
		       entry_date, company_id, currency_code
		FROM ledger_entries
		WHERE debit_account <> $1
		UNION ALL
		SELECT credit_account AS code, 'CREDIT' AS side, credit AS amount,
		       entry_date, company_id, currency_code
		FROM ledger_entries
		WHERE credit_account <> $1
	)
`

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// filterClause renders the optional company and currency filters against the
// legs join. Filters narrow which entries count, never which accounts appear.
func filterClause(prefix string, filter domain.ReportFilter, args []interface{}) (string, []interface{}) {
	clause := ""
	if filter.CompanyID != nil {
		clause += ` AND ` + prefix + `.company_id = $` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.CompanyID)
	}
	if filter.CurrencyCode != nil {
		clause += ` AND ` + prefix + `.currency_code = $` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.CurrencyCode)
	}
	return clause, args
}

// GetTrialBalanceData returns per-account debit and credit totals as of a
// date. Every active account of the user appears, including those with no
// activity in range.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) ([]domain.TrialBalanceRow, error) {
	args := []interface{}{models.UnassignedLeg, userID, asOf}
	joinFilter, args := filterClause("l", filter, args)

	query := legsCTE + `
		SELECT
			a.account_id,
			a.code,
			a.alias,
			a.account_type,
			COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN l.side = 'CREDIT' THEN l.amount ELSE 0 END), 0) AS total_credit
		FROM accounts a
		LEFT JOIN legs l ON l.code = a.code AND l.entry_date <= $3` + joinFilter + `
		WHERE a.user_id = $2 AND a.is_active = TRUE
		GROUP BY a.account_id, a.code, a.alias, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.Code,
			&row.Alias,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	return result, nil
}

// GetProfitAndLossData returns net income and expense account amounts for a
// period. Accounts with zero net activity are excluded from the report.
func (r *reportingRepository) GetProfitAndLossData(ctx context.Context, userID string, from, to time.Time, filter domain.ReportFilter) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := []interface{}{models.UnassignedLeg, userID, from, to}
	whereFilter, args := filterClause("l", filter, args)

	query := legsCTE + `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.alias,
			SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE -l.amount END) AS net
		FROM legs l
		JOIN accounts a ON a.code = l.code
		WHERE a.user_id = $2
			AND l.entry_date BETWEEN $3 AND $4
			AND a.account_type IN ('INCOME', 'EXPENSE')` + whereFilter + `
		GROUP BY a.account_type, a.account_id, a.code, a.alias
		HAVING SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE -l.amount END) <> 0
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying profit and loss data: %w", err)
	}
	defer rows.Close()

	income := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}

	for rows.Next() {
		var accountType string
		var accountAmount domain.AccountAmount
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &accountAmount.AccountID, &accountAmount.Code, &accountAmount.Alias, &netAmount); err != nil {
			return nil, nil, fmt.Errorf("error scanning profit and loss row: %w", err)
		}

		switch accountType {
		case string(domain.Income):
			// Income accounts grow on the credit side; invert the debit-minus-
			// credit net so earned amounts read positive.
			accountAmount.NetAmount = netAmount.Neg()
			income = append(income, accountAmount)
		case string(domain.Expense):
			accountAmount.NetAmount = netAmount
			expenses = append(expenses, accountAmount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating profit and loss rows: %w", err)
	}

	return income, expenses, nil
}

// GetBalanceSheetData returns net asset, liability and equity account amounts
// as of a date. Every active account of those types appears, including
// zero-activity ones.
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, userID string, asOf time.Time, filter domain.ReportFilter) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := []interface{}{models.UnassignedLeg, userID, asOf}
	joinFilter, args := filterClause("l", filter, args)

	query := legsCTE + `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.alias,
			COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE -l.amount END), 0) AS net
		FROM accounts a
		LEFT JOIN legs l ON l.code = a.code AND l.entry_date <= $3` + joinFilter + `
		WHERE a.user_id = $2
			AND a.is_active = TRUE
			AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.account_type, a.account_id, a.code, a.alias
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}

	for rows.Next() {
		var accountType string
		var accountAmount domain.AccountAmount
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &accountAmount.AccountID, &accountAmount.Code, &accountAmount.Alias, &netAmount); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		switch accountType {
		case string(domain.Asset):
			accountAmount.NetAmount = netAmount
			assets = append(assets, accountAmount)
		case string(domain.Liability):
			// Liabilities and equity grow on the credit side; invert for display.
			accountAmount.NetAmount = netAmount.Neg()
			liabilities = append(liabilities, accountAmount)
		case string(domain.Equity):
			accountAmount.NetAmount = netAmount.Neg()
			equity = append(equity, accountAmount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}

	return assets, liabilities, equity, nil
}
