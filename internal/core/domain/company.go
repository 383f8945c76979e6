package domain

import "github.com/shopspring/decimal"

// Company is a logical grouping (business or person) that accounts and
// ledger entries can be tagged with for reporting segmentation.
type Company struct {
	CompanyID string `json:"companyID"` // Primary key (UUID)
	Name      string `json:"name"`
	UserID    string `json:"userID"` // Owning user
	IsActive  bool   `json:"isActive"`
	AuditFields
}

// CompanyStats are derived aggregates for a company. They are computed from
// the current accounts and entries, never stored.
type CompanyStats struct {
	TotalAccounts     int             `json:"totalAccounts"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	IncompleteEntries int             `json:"incompleteEntries"`
}
