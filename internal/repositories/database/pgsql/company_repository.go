package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsmitterc/remesafe/internal/apperrors"
	"github.com/jsmitterc/remesafe/internal/core/domain"
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	"github.com/jsmitterc/remesafe/internal/models"
	"github.com/jsmitterc/remesafe/internal/utils/mapping"
)

const companyColumns = `company_id, name, user_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func scanCompany(row pgx.Row) (models.Company, error) {
	var m models.Company
	err := row.Scan(
		&m.CompanyID,
		&m.Name,
		&m.UserID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCompany inserts a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)

	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.UserID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: company with ID %s already exists", apperrors.ErrDuplicate, m.CompanyID)
			}
		}
		return fmt.Errorf("failed to save company %s: %w", m.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE company_id = $1;
	`
	m, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}

	domainCompany := mapping.ToDomainCompany(m)
	return &domainCompany, nil
}

// ListCompanies retrieves the active companies owned by a user.
func (r *PgxCompanyRepository) ListCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY name;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies for user %s: %w", userID, err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		m, scanErr := scanCompany(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan company row for user %s: %w", userID, scanErr)
		}
		companies = append(companies, mapping.ToDomainCompany(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating company rows for user %s: %w", userID, rows.Err())
	}

	return companies, nil
}

// UpdateCompany updates mutable company fields.
func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)

	query := `
		UPDATE companies
		SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("failed to execute update company %s: %w", m.CompanyID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeactivateCompany marks a company as inactive.
func (r *PgxCompanyRepository) DeactivateCompany(ctx context.Context, companyID string, userID string, now time.Time) error {
	query := `
		UPDATE companies
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $1 AND is_active = TRUE;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, companyID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate company %s: %w", companyID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindCompanyByID(ctx, companyID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check company status after deactivation attempt for %s: %w", companyID, findErr)
		}
		return fmt.Errorf("%w: company %s is already inactive", apperrors.ErrConflict, companyID)
	}

	return nil
}

// GetCompanyStats computes the derived aggregates for a company. Stats are
// always derived from current rows, never stored.
func (r *PgxCompanyRepository) GetCompanyStats(ctx context.Context, companyID string) (*domain.CompanyStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts WHERE company_id = $1 AND is_active = TRUE),
			(SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE company_id = $1 AND is_active = TRUE),
			(SELECT COUNT(*) FROM ledger_entries WHERE company_id = $1 AND (debit_account = $2 OR credit_account = $2));
	`

	var stats domain.CompanyStats
	err := r.Pool.QueryRow(ctx, query, companyID, models.UnassignedLeg).Scan(
		&stats.TotalAccounts,
		&stats.TotalBalance,
		&stats.IncompleteEntries,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats for company %s: %w", companyID, err)
	}

	return &stats, nil
}
