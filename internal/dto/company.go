package dto

import (
	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCompanyRequest defines the payload for creating a company.
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCompanyRequest defines the payload for renaming a company.
type UpdateCompanyRequest struct {
	Name *string `json:"name"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
}

// CompanyStatsResponse carries the derived aggregates for a company.
type CompanyStatsResponse struct {
	CompanyID         string          `json:"companyID"`
	TotalAccounts     int             `json:"totalAccounts"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	IncompleteEntries int             `json:"incompleteEntries"`
}

// ToCompanyResponse converts a domain.Company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		IsActive:  c.IsActive,
	}
}

// ToCompanyResponses converts a slice of domain companies.
func ToCompanyResponses(companies []domain.Company) []CompanyResponse {
	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses
}
