package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jsmitterc/remesafe/internal/apperrors"
	"github.com/jsmitterc/remesafe/internal/core/domain"
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	portssvc "github.com/jsmitterc/remesafe/internal/core/ports/services"
	"github.com/jsmitterc/remesafe/internal/dto"
	"github.com/jsmitterc/remesafe/internal/utils/accounting"
)

var (
	ErrAccountMissingType = errors.New("account has no account type configured")
	ErrSameAccountLegs    = errors.New("entry must affect two different accounts")
	ErrAmountNotPositive  = errors.New("entry amount must be positive")
)

// ledgerService implements the ledger engine: posting, reconciliation,
// statement import, incomplete-entry assignment.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ownedAccountByID fetches an account and verifies ownership. Accounts of
// other users are reported as not found to avoid leaking their existence.
func (s *ledgerService) ownedAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ownedAccountByCode is ownedAccountByID keyed by ledger code.
func (s *ledgerService) ownedAccountByCode(ctx context.Context, userID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// CreateEntry posts a manual balanced double entry and applies the balance
// effect to both accounts atomically.
func (s *ledgerService) CreateEntry(ctx context.Context, userID string, req dto.CreateEntryRequest) (*domain.LedgerEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	if req.DebitAccountCode == req.CreditAccountCode {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrSameAccountLegs)
	}

	codes := []string{req.DebitAccountCode, req.CreditAccountCode}
	accountsMap, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal, 2)
	for _, leg := range []struct {
		code string
		side domain.EntrySide
	}{
		{req.DebitAccountCode, domain.Debit},
		{req.CreditAccountCode, domain.Credit},
	} {
		acc, found := accountsMap[leg.code]
		if !found || acc.UserID != userID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, leg.code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrConflict, leg.code)
		}
		if acc.CurrencyCode != req.CurrencyCode {
			return nil, fmt.Errorf("%w: account %s currency %s does not match entry currency %s", apperrors.ErrValidation, leg.code, acc.CurrencyCode, req.CurrencyCode)
		}
		signed, err := accounting.SignedAmount(leg.side, acc.AccountType, req.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		balanceChanges[leg.code] = balanceChanges[leg.code].Add(signed)
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		EntryID:        uuid.NewString(),
		DebitAccount:   domain.AssignedRef(req.DebitAccountCode),
		CreditAccount:  domain.AssignedRef(req.CreditAccountCode),
		Debit:          req.Amount,
		Credit:         req.Amount,
		EntryDate:      req.EntryDate,
		AccountingDate: now,
		Status:         domain.Posted,
		CompanyID:      req.CompanyID,
		CurrencyCode:   req.CurrencyCode,
		Description:    req.Description,
		AuditFields:    auditFields(userID, now),
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to save ledger entry", slog.String("entry_id", entry.EntryID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	s.LogInfo(ctx, "Ledger entry created", slog.String("entry_id", entry.EntryID))
	return &entry, nil
}

// Reconcile forces an account's stored balance to the reported bank balance.
// When the difference is below tolerance nothing is posted and a nil entry is
// returned. Otherwise one adjustment entry is created: the account's code
// takes the leg that moves its balance toward the bank balance, and the other
// leg stays unassigned. The adjustment is deliberately one-sided; no clearing
// counter-account is invented.
func (s *ledgerService) Reconcile(ctx context.Context, userID string, accountID string, req dto.ReconcileRequest) (*domain.LedgerEntry, error) {
	account, err := s.ownedAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if account.AccountType == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAccountMissingType)
	}

	difference := req.BankBalance.Sub(account.Balance)
	if accounting.WithinTolerance(req.BankBalance, account.Balance) {
		s.LogInfo(ctx, "Account already reconciled", slog.String("account_id", accountID))
		return nil, nil
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Reconciliation adjustment to %s", req.BankBalance)
	}

	now := time.Now().UTC()
	entry := s.adjustmentEntry(account, difference, req.BankBalance, req.Date, description, userID, now)

	if err := s.ledgerRepo.SaveReconciliation(ctx, entry, account.AccountID, account.Balance, req.BankBalance); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	s.LogInfo(ctx, "Account reconciled",
		slog.String("account_id", accountID),
		slog.String("difference", difference.String()))
	return &entry, nil
}

// adjustmentEntry builds a one-sided balancing entry that moves the account's
// balance by difference, stamping the target balance as the running snapshot.
func (s *ledgerService) adjustmentEntry(account *domain.Account, difference, targetBalance decimal.Decimal, date time.Time, description, userID string, now time.Time) domain.LedgerEntry {
	amount := difference.Abs()
	entry := domain.LedgerEntry{
		EntryID:        uuid.NewString(),
		Debit:          amount,
		Credit:         amount,
		EntryDate:      date,
		AccountingDate: now,
		Status:         domain.Posted,
		Conciled:       true,
		CompanyID:      account.CompanyID,
		CurrencyCode:   account.CurrencyCode,
		Description:    description,
		AuditFields:    auditFields(userID, now),
	}
	if accounting.AdjustmentSide(account.AccountType, difference) == domain.Debit {
		entry.DebitAccount = domain.AssignedRef(account.Code)
		entry.BalanceDebit = targetBalance
	} else {
		entry.CreditAccount = domain.AssignedRef(account.Code)
		entry.BalanceCredit = targetBalance
	}
	return entry
}

// ImportStatement verifies a bank statement and posts its transactions as
// one atomic unit. Validation happens before any mutation: a statement that
// does not balance leaves the ledger untouched.
//
// Re-submitting the same statement posts everything again; there is no
// deduplication key.
func (s *ledgerService) ImportStatement(ctx context.Context, userID string, stmt domain.Statement) ([]domain.LedgerEntry, error) {
	account, err := s.ownedAccountByID(ctx, userID, stmt.AccountID)
	if err != nil {
		return nil, err
	}
	if account.AccountType == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAccountMissingType)
	}

	// Validation happens before any mutation. Each row's declared side must
	// agree with the sign of its amount for this account type, and the signed
	// amounts must carry the opening balance to the closing balance.
	calculated := stmt.OpeningBalance
	for i, txn := range stmt.Transactions {
		signed, err := accounting.SignedAmount(txn.Side, account.AccountType, txn.Amount.Abs())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if !signed.Equal(txn.Amount) {
			return nil, fmt.Errorf("%w: transaction %d: %s on a %s account implies amount %s, got %s",
				apperrors.ErrValidation, i, txn.Side, account.AccountType, signed, txn.Amount)
		}
		calculated = calculated.Add(txn.Amount)
	}
	if !accounting.WithinTolerance(calculated, stmt.ClosingBalance) {
		return nil, fmt.Errorf("%w: statement does not balance: expected closing %s, calculated %s (delta %s)",
			apperrors.ErrValidation, stmt.ClosingBalance, calculated, stmt.ClosingBalance.Sub(calculated))
	}

	now := time.Now().UTC()
	entries := make([]domain.LedgerEntry, 0, len(stmt.Transactions)+1)

	// The stored balance should already sit at the statement opening balance.
	// When it does not, synthesize an opening adjustment first so the
	// statement rows post on top of a verified starting point.
	if !accounting.WithinTolerance(account.Balance, stmt.OpeningBalance) {
		difference := stmt.OpeningBalance.Sub(account.Balance)
		opening := s.adjustmentEntry(account, difference, stmt.OpeningBalance, stmt.StatementDate,
			fmt.Sprintf("Opening balance adjustment to %s", stmt.OpeningBalance), userID, now)
		entries = append(entries, opening)
		s.LogInfo(ctx, "Opening balance adjustment synthesized",
			slog.String("account_id", account.AccountID),
			slog.String("difference", difference.String()))
	}

	currentBalance := stmt.OpeningBalance
	for _, txn := range stmt.Transactions {
		amount := txn.Amount.Abs()
		// Side and sign were validated to agree, so the raw amount is the
		// balance delta.
		currentBalance = currentBalance.Add(txn.Amount)

		entry := domain.LedgerEntry{
			EntryID:        uuid.NewString(),
			Debit:          amount,
			Credit:         amount,
			EntryDate:      txn.Date,
			AccountingDate: now,
			Status:         domain.Posted,
			Conciled:       true,
			CompanyID:      account.CompanyID,
			CurrencyCode:   account.CurrencyCode,
			Description:    txn.Description,
			AuditFields:    auditFields(userID, now),
		}
		// The statement account takes its declared leg; the counter-account is
		// unknown at import time, so the opposite leg stays unassigned until
		// resolved through the assignment workflow.
		if txn.Side == domain.Debit {
			entry.DebitAccount = domain.AssignedRef(account.Code)
			entry.BalanceDebit = currentBalance
		} else {
			entry.CreditAccount = domain.AssignedRef(account.Code)
			entry.BalanceCredit = currentBalance
		}
		entries = append(entries, entry)
	}

	if err := s.ledgerRepo.SaveStatementImport(ctx, entries, account.AccountID, account.Balance, stmt.ClosingBalance, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to save statement import", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to save statement import: %w", err)
	}

	s.LogInfo(ctx, "Statement imported",
		slog.String("account_id", account.AccountID),
		slog.Int("entry_count", len(entries)))
	return entries, nil
}

// AssignAccount fills one unassigned leg of an incomplete entry. An already
// assigned leg is never overwritten.
func (s *ledgerService) AssignAccount(ctx context.Context, userID string, entryID string, accountCode string, side domain.EntrySide) error {
	account, err := s.ownedAccountByCode(ctx, userID, accountCode)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is inactive", apperrors.ErrConflict, accountCode)
	}

	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Leg(side).Assigned() {
		return fmt.Errorf("%w: %s leg of entry %s is already assigned", apperrors.ErrConflict, side, entryID)
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.AssignEntryLeg(ctx, entryID, side, accountCode, userID, now); err != nil {
		return err
	}

	s.LogInfo(ctx, "Entry leg assigned",
		slog.String("entry_id", entryID),
		slog.String("side", string(side)),
		slog.String("account_code", accountCode))
	return nil
}

// BulkAssign applies one leg assignment across many entries. Entries whose
// target leg is already filled are skipped and counted rather than failing
// the whole batch.
func (s *ledgerService) BulkAssign(ctx context.Context, userID string, entryIDs []string, accountCode string, side domain.EntrySide) (*dto.BulkAssignResult, error) {
	account, err := s.ownedAccountByCode(ctx, userID, accountCode)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrConflict, accountCode)
	}

	entriesMap, err := s.ledgerRepo.FindEntriesByIDs(ctx, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	now := time.Now().UTC()
	result := &dto.BulkAssignResult{}
	for _, entryID := range entryIDs {
		entry, found := entriesMap[entryID]
		if !found || entry.Leg(side).Assigned() {
			result.SkippedCount++
			continue
		}
		err := s.ledgerRepo.AssignEntryLeg(ctx, entryID, side, accountCode, userID, now)
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost a race to another assignment; treat like an already filled leg.
			result.SkippedCount++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to assign entry %s: %w", entryID, err)
		}
		result.AssignedCount++
	}

	s.LogInfo(ctx, "Bulk assignment completed",
		slog.Int("assigned", result.AssignedCount),
		slog.Int("skipped", result.SkippedCount))
	return result, nil
}

// SmartBulkAssign fills, per entry, whichever single leg is unassigned.
// Entries with both legs filled are already complete and are skipped; entries
// with both legs empty are ambiguous and are skipped as well.
func (s *ledgerService) SmartBulkAssign(ctx context.Context, userID string, entryIDs []string, accountCode string) (*dto.BulkAssignResult, error) {
	account, err := s.ownedAccountByCode(ctx, userID, accountCode)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrConflict, accountCode)
	}

	entriesMap, err := s.ledgerRepo.FindEntriesByIDs(ctx, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	now := time.Now().UTC()
	result := &dto.BulkAssignResult{}
	for _, entryID := range entryIDs {
		entry, found := entriesMap[entryID]
		if !found {
			result.SkippedCount++
			continue
		}

		var side domain.EntrySide
		switch {
		case entry.DebitAccount.Assigned() && entry.CreditAccount.Assigned():
			result.SkippedCount++
			continue
		case !entry.DebitAccount.Assigned() && !entry.CreditAccount.Assigned():
			// No defined policy for doubly-incomplete entries beyond skipping.
			result.SkippedCount++
			continue
		case !entry.DebitAccount.Assigned():
			side = domain.Debit
		default:
			side = domain.Credit
		}

		err := s.ledgerRepo.AssignEntryLeg(ctx, entryID, side, accountCode, userID, now)
		if errors.Is(err, apperrors.ErrConflict) {
			result.SkippedCount++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to assign entry %s: %w", entryID, err)
		}
		result.AssignedCount++
	}

	s.LogInfo(ctx, "Smart bulk assignment completed",
		slog.Int("assigned", result.AssignedCount),
		slog.Int("skipped", result.SkippedCount))
	return result, nil
}

// BulkClassify tags a set of entries with a classification, scoped through
// account ownership.
func (s *ledgerService) BulkClassify(ctx context.Context, userID string, entryIDs []string, classification domain.Classification) (int64, error) {
	now := time.Now().UTC()
	updated, err := s.ledgerRepo.TagClassification(ctx, entryIDs, classification, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to tag classification: %w", err)
	}
	s.LogInfo(ctx, "Entries classified",
		slog.Int64("updated", updated),
		slog.String("classification", string(classification)))
	return updated, nil
}

// DeleteEntries removes entries gated by ownership through the account join.
func (s *ledgerService) DeleteEntries(ctx context.Context, userID string, entryIDs []string) (int64, error) {
	deleted, err := s.ledgerRepo.DeleteEntriesForOwner(ctx, entryIDs, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	s.LogInfo(ctx, "Entries deleted", slog.Int64("deleted", deleted))
	return deleted, nil
}

// GetEntry retrieves one entry the user can see. When perspectiveCode names
// an account on one of the legs, the entry's classification is derived from
// that account's point of view.
func (s *ledgerService) GetEntry(ctx context.Context, userID string, entryID string, perspectiveCode string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	codes := legCodes(*entry)
	accountsMap, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leg accounts: %w", err)
	}
	owned := false
	for _, acc := range accountsMap {
		if acc.UserID == userID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, apperrors.ErrNotFound
	}

	if perspectiveCode != "" {
		s.classifyFromPerspective(entry, perspectiveCode, accountsMap)
	}
	return entry, nil
}

// ListIncompleteEntries pages through entries awaiting assignment on an account.
func (s *ledgerService) ListIncompleteEntries(ctx context.Context, userID string, accountCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	account, err := s.ownedAccountByCode(ctx, userID, accountCode)
	if err != nil {
		return nil, err
	}

	entries, nextToken, err := s.ledgerRepo.ListIncompleteEntries(ctx, account.Code, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete entries: %w", err)
	}

	if err := s.classifyEntries(ctx, entries, account.Code); err != nil {
		return nil, err
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ListEntriesByAccount pages through an account's entries, each classified
// from that account's perspective.
func (s *ledgerService) ListEntriesByAccount(ctx context.Context, userID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	account, err := s.ownedAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, account.Code, params.From, params.To, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	if err := s.classifyEntries(ctx, entries, account.Code); err != nil {
		return nil, err
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// classifyEntries derives the classification of each entry from the
// perspective of perspectiveCode, batching the counter-account lookups.
// Entries already carrying an explicit classification tag keep it.
func (s *ledgerService) classifyEntries(ctx context.Context, entries []domain.LedgerEntry, perspectiveCode string) error {
	codeSet := make(map[string]struct{})
	for _, entry := range entries {
		for _, code := range legCodes(entry) {
			codeSet[code] = struct{}{}
		}
	}
	codes := make([]string, 0, len(codeSet))
	for code := range codeSet {
		codes = append(codes, code)
	}

	accountsMap, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("failed to fetch leg accounts: %w", err)
	}

	for i := range entries {
		if entries[i].Classification != "" {
			continue
		}
		s.classifyFromPerspective(&entries[i], perspectiveCode, accountsMap)
	}
	return nil
}

// classifyFromPerspective sets entry.Classification using the shared rule:
// the primary account's role on the entry and the counter-account's type.
func (s *ledgerService) classifyFromPerspective(entry *domain.LedgerEntry, perspectiveCode string, accountsMap map[string]domain.Account) {
	side, ok := entry.SideOf(perspectiveCode)
	if !ok {
		return
	}
	otherSide := domain.Credit
	if side == domain.Credit {
		otherSide = domain.Debit
	}

	var otherType domain.AccountType
	if other := entry.Leg(otherSide); other.Assigned() {
		if acc, found := accountsMap[other.Code()]; found {
			otherType = acc.AccountType
		}
	}
	entry.Classification = accounting.Classify(side, otherType)
}

// legCodes returns the assigned account codes on an entry.
func legCodes(entry domain.LedgerEntry) []string {
	codes := make([]string, 0, 2)
	if entry.DebitAccount.Assigned() {
		codes = append(codes, entry.DebitAccount.Code())
	}
	if entry.CreditAccount.Assigned() {
		codes = append(codes, entry.CreditAccount.Code())
	}
	return codes
}

// auditFields builds audit metadata for a new record.
func auditFields(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
