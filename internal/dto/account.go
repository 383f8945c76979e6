package dto

import (
	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code           string             `json:"code" binding:"required,notreserved"`
	Alias          string             `json:"alias" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	CurrencyCode   string             `json:"currencyCode" binding:"required,len=3"`
	CompanyID      string             `json:"companyID"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
}

// UpdateAccountRequest defines the payload for updating mutable account fields.
type UpdateAccountRequest struct {
	Alias     *string `json:"alias"`
	CompanyID *string `json:"companyID"`
}

// ListAccountsParams holds the query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType *string `form:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Limit       int     `form:"limit,default=20"`
	Offset      int     `form:"offset,default=0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	Code         string             `json:"code"`
	Alias        string             `json:"alias"`
	AccountType  domain.AccountType `json:"accountType"`
	CurrencyCode string             `json:"currencyCode"`
	CompanyID    string             `json:"companyID,omitempty"`
	IsActive     bool               `json:"isActive"`
	Balance      decimal.Decimal    `json:"balance"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		Code:         a.Code,
		Alias:        a.Alias,
		AccountType:  a.AccountType,
		CurrencyCode: a.CurrencyCode,
		CompanyID:    a.CompanyID,
		IsActive:     a.IsActive,
		Balance:      a.Balance,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
