package services

import (
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	portssvc "github.com/jsmitterc/remesafe/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:   NewAccountService(repos.AccountRepo),
		Ledger:    NewLedgerService(repos.LedgerRepo, repos.AccountRepo),
		Company:   NewCompanyService(repos.CompanyRepo),
		Reporting: NewReportingService(repos.ReportingRepo),
	}
}
