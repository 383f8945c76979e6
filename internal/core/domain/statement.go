package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementTransaction is one row of an externally sourced bank statement.
// Amount is signed for balance verification (positive adds to the balance,
// negative subtracts); Side declares which leg the statement account takes
// when the row is posted to the ledger.
type StatementTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Side        EntrySide       `json:"side"`
}

// Statement is a bank statement to import against one account, with declared
// opening and closing totals for continuity verification.
type Statement struct {
	AccountID      string                 `json:"accountID"`
	StatementDate  time.Time              `json:"statementDate"`
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
	ClosingBalance decimal.Decimal        `json:"closingBalance"`
	Transactions   []StatementTransaction `json:"transactions"`
}
