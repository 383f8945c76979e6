package services

import (
	"context"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/jsmitterc/remesafe/internal/dto"
)

// AccountSvcFacade exposes account management operations.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, userID string, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string, accountType *domain.AccountType, limit, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, userID string, accountID string) error
}
