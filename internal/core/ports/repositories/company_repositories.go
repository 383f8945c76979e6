package repositories

import (
	"context"
	"time"

	"github.com/jsmitterc/remesafe/internal/core/domain"
)

// CompanyRepositoryFacade defines persistence operations for companies.
type CompanyRepositoryFacade interface {
	// SaveCompany inserts a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves the active companies owned by a user.
	ListCompanies(ctx context.Context, userID string) ([]domain.Company, error)

	// UpdateCompany updates mutable company fields.
	UpdateCompany(ctx context.Context, company domain.Company) error

	// DeactivateCompany soft-deletes a company.
	DeactivateCompany(ctx context.Context, companyID string, userID string, now time.Time) error

	// GetCompanyStats computes the derived aggregates for a company.
	GetCompanyStats(ctx context.Context, companyID string) (*domain.CompanyStats, error)
}
