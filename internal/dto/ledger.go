package dto

import (
	"time"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest defines the payload for a manual double-entry posting.
// Both legs must be assigned; the amount is the magnitude of each leg.
type CreateEntryRequest struct {
	DebitAccountCode  string          `json:"debitAccountCode" binding:"required"`
	CreditAccountCode string          `json:"creditAccountCode" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	EntryDate         time.Time       `json:"entryDate" binding:"required"`
	Description       string          `json:"description" binding:"required"`
	CurrencyCode      string          `json:"currencyCode" binding:"required,len=3"`
	CompanyID         string          `json:"companyID"`
}

// ReconcileRequest defines the payload for a single-adjustment reconciliation.
type ReconcileRequest struct {
	BankBalance decimal.Decimal `json:"bankBalance" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Description string          `json:"description"`
}

// ReconcileResponse reports the reconciliation outcome. Entry is nil when the
// stored balance already matched the bank balance within tolerance.
type ReconcileResponse struct {
	Reconciled bool           `json:"reconciled"`
	Entry      *EntryResponse `json:"entry,omitempty"`
}

// StatementTransactionRequest is one statement row in an import payload.
type StatementTransactionRequest struct {
	Date        time.Time        `json:"date" binding:"required"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount" binding:"required"`
	Side        domain.EntrySide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
}

// ImportStatementRequest defines the payload for a statement import.
type ImportStatementRequest struct {
	StatementDate  time.Time                     `json:"statementDate" binding:"required"`
	OpeningBalance decimal.Decimal               `json:"openingBalance"`
	ClosingBalance decimal.Decimal               `json:"closingBalance"`
	Transactions   []StatementTransactionRequest `json:"transactions" binding:"required,min=1,dive"`
}

// ToDomainStatement converts the request to the domain statement for accountID.
func (r ImportStatementRequest) ToDomainStatement(accountID string) domain.Statement {
	txns := make([]domain.StatementTransaction, len(r.Transactions))
	for i, t := range r.Transactions {
		txns[i] = domain.StatementTransaction{
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			Side:        t.Side,
		}
	}
	return domain.Statement{
		AccountID:      accountID,
		StatementDate:  r.StatementDate,
		OpeningBalance: r.OpeningBalance,
		ClosingBalance: r.ClosingBalance,
		Transactions:   txns,
	}
}

// AssignAccountRequest defines the payload for assigning one leg of an
// incomplete entry to an account.
type AssignAccountRequest struct {
	AccountCode string           `json:"accountCode" binding:"required,notreserved"`
	Side        domain.EntrySide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
}

// BulkAssignRequest applies one assignment to a set of entries.
type BulkAssignRequest struct {
	EntryIDs    []string         `json:"entryIDs" binding:"required,min=1"`
	AccountCode string           `json:"accountCode" binding:"required,notreserved"`
	Side        domain.EntrySide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
}

// SmartBulkAssignRequest fills whichever single leg is empty per entry.
type SmartBulkAssignRequest struct {
	EntryIDs    []string `json:"entryIDs" binding:"required,min=1"`
	AccountCode string   `json:"accountCode" binding:"required,notreserved"`
}

// BulkAssignResult reports how many entries were assigned vs skipped.
type BulkAssignResult struct {
	AssignedCount int `json:"assignedCount"`
	SkippedCount  int `json:"skippedCount"`
}

// BulkClassifyRequest tags a set of entries with a classification.
type BulkClassifyRequest struct {
	EntryIDs       []string              `json:"entryIDs" binding:"required,min=1"`
	Classification domain.Classification `json:"classification" binding:"required,oneof=income expense transfer"`
}

// DeleteEntriesRequest defines the payload for ownership-gated bulk delete.
type DeleteEntriesRequest struct {
	EntryIDs []string `json:"entryIDs" binding:"required,min=1"`
}

// ListEntriesQuery holds the query parameters for entry listings.
type ListEntriesQuery struct {
	Limit     int        `form:"limit,default=20"`
	NextToken *string    `form:"nextToken"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// ToParams converts the bound query to listing parameters.
func (q ListEntriesQuery) ToParams() ListEntriesParams {
	return ListEntriesParams{
		Limit:     q.Limit,
		NextToken: q.NextToken,
		From:      q.From,
		To:        q.To,
	}
}

// ListEntriesParams holds listing parameters shared by entry listings.
type ListEntriesParams struct {
	Limit     int
	NextToken *string
	From      *time.Time
	To        *time.Time
}

// EntryResponse defines the data returned for a ledger entry. Leg fields are
// nil when the leg is unassigned.
type EntryResponse struct {
	EntryID        string                `json:"entryID"`
	DebitAccount   *string               `json:"debitAccount"`
	CreditAccount  *string               `json:"creditAccount"`
	Debit          decimal.Decimal       `json:"debit"`
	Credit         decimal.Decimal       `json:"credit"`
	EntryDate      time.Time             `json:"entryDate"`
	AccountingDate time.Time             `json:"accountingDate"`
	Status         domain.EntryStatus    `json:"status"`
	Conciled       bool                  `json:"conciled"`
	CompanyID      string                `json:"companyID,omitempty"`
	CurrencyCode   string                `json:"currencyCode"`
	Description    string                `json:"description"`
	BalanceDebit   decimal.Decimal       `json:"balanceDebit"`
	BalanceCredit  decimal.Decimal       `json:"balanceCredit"`
	Classification domain.Classification `json:"classification,omitempty"`
	Incomplete     bool                  `json:"incomplete"`
}

// ListEntriesResponse wraps a page of entries with the pagination cursor.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:        e.EntryID,
		Debit:          e.Debit,
		Credit:         e.Credit,
		EntryDate:      e.EntryDate,
		AccountingDate: e.AccountingDate,
		Status:         e.Status,
		Conciled:       e.Conciled,
		CompanyID:      e.CompanyID,
		CurrencyCode:   e.CurrencyCode,
		Description:    e.Description,
		BalanceDebit:   e.BalanceDebit,
		BalanceCredit:  e.BalanceCredit,
		Classification: e.Classification,
		Incomplete:     e.Incomplete(),
	}
	if e.DebitAccount.Assigned() {
		code := e.DebitAccount.Code()
		resp.DebitAccount = &code
	}
	if e.CreditAccount.Assigned() {
		code := e.CreditAccount.Code()
		resp.CreditAccount = &code
	}
	return resp
}

// ToEntryResponses converts a slice of domain entries.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}
