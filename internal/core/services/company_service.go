package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsmitterc/remesafe/internal/apperrors"
	"github.com/jsmitterc/remesafe/internal/core/domain"
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	portssvc "github.com/jsmitterc/remesafe/internal/core/ports/services"
	"github.com/jsmitterc/remesafe/internal/dto"
)

type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: companyRepo,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, userID string, req dto.CreateCompanyRequest) (*domain.Company, error) {
	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:   uuid.NewString(),
		Name:        req.Name,
		UserID:      userID,
		IsActive:    true,
		AuditFields: auditFields(userID, now),
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save company: %w", err)
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID))
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, userID string, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompanies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, userID string, companyID string, req dto.UpdateCompanyRequest) (*domain.Company, error) {
	company, err := s.GetCompanyByID(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	now := time.Now().UTC()
	company.LastUpdatedAt = now
	company.LastUpdatedBy = userID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.LogInfo(ctx, "Company updated", slog.String("company_id", companyID))
	return company, nil
}

func (s *companyService) DeactivateCompany(ctx context.Context, userID string, companyID string) error {
	if _, err := s.GetCompanyByID(ctx, userID, companyID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.companyRepo.DeactivateCompany(ctx, companyID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate company", slog.String("company_id", companyID))
		return fmt.Errorf("failed to deactivate company: %w", err)
	}

	s.LogInfo(ctx, "Company deactivated", slog.String("company_id", companyID))
	return nil
}

func (s *companyService) GetCompanyStats(ctx context.Context, userID string, companyID string) (*domain.CompanyStats, error) {
	if _, err := s.GetCompanyByID(ctx, userID, companyID); err != nil {
		return nil, err
	}

	stats, err := s.companyRepo.GetCompanyStats(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute company stats: %w", err)
	}
	return stats, nil
}
