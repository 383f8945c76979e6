package services

import (
	"context"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/jsmitterc/remesafe/internal/dto"
)

// CompanySvcFacade exposes company (entity) management operations.
type CompanySvcFacade interface {
	CreateCompany(ctx context.Context, userID string, req dto.CreateCompanyRequest) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, userID string, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context, userID string) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, userID string, companyID string, req dto.UpdateCompanyRequest) (*domain.Company, error)
	DeactivateCompany(ctx context.Context, userID string, companyID string) error
	GetCompanyStats(ctx context.Context, userID string, companyID string) (*domain.CompanyStats, error)
}
