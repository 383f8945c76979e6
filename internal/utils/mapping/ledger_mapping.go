package mapping

import (
	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/jsmitterc/remesafe/internal/models"
)

// LegToColumn maps an AccountRef to its column value, translating the
// unassigned zero value to the legacy '0' sentinel.
func LegToColumn(r domain.AccountRef) string {
	if !r.Assigned() {
		return models.UnassignedLeg
	}
	return r.Code()
}

// ColumnToLeg maps a leg column value back to an AccountRef.
func ColumnToLeg(code string) domain.AccountRef {
	if code == models.UnassignedLeg || code == "" {
		return domain.Unassigned
	}
	return domain.AssignedRef(code)
}

// ToModelLedgerEntry converts a domain entry to its table row shape.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		DebitAccount:   LegToColumn(d.DebitAccount),
		CreditAccount:  LegToColumn(d.CreditAccount),
		Debit:          d.Debit,
		Credit:         d.Credit,
		EntryDate:      d.EntryDate,
		AccountingDate: d.AccountingDate,
		Status:         string(d.Status),
		Conciled:       d.Conciled,
		CompanyID:      d.CompanyID,
		CurrencyCode:   d.CurrencyCode,
		Description:    d.Description,
		BalanceDebit:   d.BalanceDebit,
		BalanceCredit:  d.BalanceCredit,
		Classification: string(d.Classification),
		AuditFields:    toModelAudit(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a ledger_entries row to the domain representation.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		DebitAccount:   ColumnToLeg(m.DebitAccount),
		CreditAccount:  ColumnToLeg(m.CreditAccount),
		Debit:          m.Debit,
		Credit:         m.Credit,
		EntryDate:      m.EntryDate,
		AccountingDate: m.AccountingDate,
		Status:         domain.EntryStatus(m.Status),
		Conciled:       m.Conciled,
		CompanyID:      m.CompanyID,
		CurrencyCode:   m.CurrencyCode,
		Description:    m.Description,
		BalanceDebit:   m.BalanceDebit,
		BalanceCredit:  m.BalanceCredit,
		Classification: domain.Classification(m.Classification),
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of ledger rows.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
