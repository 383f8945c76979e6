package mapping

import (
	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/jsmitterc/remesafe/internal/models"
)

// ToModelAccount converts a domain account to its table row shape.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		Code:         d.Code,
		Alias:        d.Alias,
		AccountType:  models.AccountType(d.AccountType),
		CurrencyCode: d.CurrencyCode,
		UserID:       d.UserID,
		CompanyID:    d.CompanyID,
		IsActive:     d.IsActive,
		Balance:      d.Balance,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainAccount converts an accounts row to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Code:         m.Code,
		Alias:        m.Alias,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		UserID:       m.UserID,
		CompanyID:    m.CompanyID,
		IsActive:     m.IsActive,
		Balance:      m.Balance,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of account rows.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
