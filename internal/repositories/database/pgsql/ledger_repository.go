package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jsmitterc/remesafe/internal/apperrors"
	"github.com/jsmitterc/remesafe/internal/core/domain"
	portsrepo "github.com/jsmitterc/remesafe/internal/core/ports/repositories"
	"github.com/jsmitterc/remesafe/internal/models"
	"github.com/jsmitterc/remesafe/internal/utils/mapping"
	"github.com/jsmitterc/remesafe/internal/utils/pagination"
)

const ledgerColumns = `entry_id, debit_account, credit_account, debit, credit, entry_date, accounting_date, status, conciled, company_id, currency_code, description, balance_debit, balance_credit, classification, created_at, created_by, last_updated_at, last_updated_by`

const insertEntryQuery = `
	INSERT INTO ledger_entries (` + ledgerColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
`

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// entryInsertArgs flattens a ledger row into the insert argument list,
// mapping empty company and classification to NULL.
func entryInsertArgs(m models.LedgerEntry) []interface{} {
	var companyID sql.NullString
	if m.CompanyID != "" {
		companyID = sql.NullString{String: m.CompanyID, Valid: true}
	}
	var classification sql.NullString
	if m.Classification != "" {
		classification = sql.NullString{String: m.Classification, Valid: true}
	}
	return []interface{}{
		m.EntryID,
		m.DebitAccount,
		m.CreditAccount,
		m.Debit,
		m.Credit,
		m.EntryDate,
		m.AccountingDate,
		m.Status,
		m.Conciled,
		companyID,
		m.CurrencyCode,
		m.Description,
		m.BalanceDebit,
		m.BalanceCredit,
		classification,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// scanLedgerEntry scans one ledger_entries row from a pgx row scanner.
func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	var companyID sql.NullString
	var classification sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.DebitAccount,
		&m.CreditAccount,
		&m.Debit,
		&m.Credit,
		&m.EntryDate,
		&m.AccountingDate,
		&m.Status,
		&m.Conciled,
		&companyID,
		&m.CurrencyCode,
		&m.Description,
		&m.BalanceDebit,
		&m.BalanceCredit,
		&classification,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if companyID.Valid {
		m.CompanyID = companyID.String
	}
	if classification.Valid {
		m.Classification = classification.String
	}
	return m, nil
}

// SaveEntry persists one balanced entry and applies its balance deltas, all
// within a single DB transaction. Running-balance snapshots are stamped from
// the row-locked balances so concurrent postings cannot interleave.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	codes := make([]string, 0, len(balanceChanges))
	for code := range balanceChanges {
		codes = append(codes, code)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByCodesForUpdate(ctx, tx, codes)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	// Snapshot each leg's balance after this entry's effect.
	if entry.DebitAccount.Assigned() {
		code := entry.DebitAccount.Code()
		entry.BalanceDebit = lockedAccounts[code].Balance.Add(balanceChanges[code])
	}
	if entry.CreditAccount.Assigned() {
		code := entry.CreditAccount.Code()
		entry.BalanceCredit = lockedAccounts[code].Balance.Add(balanceChanges[code])
	}

	if err := r.accountRepo.ApplyBalanceChangesInTx(ctx, tx, balanceChanges, entry.CreatedBy, entry.CreatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	modelEntry := mapping.ToModelLedgerEntry(entry)
	if _, err := tx.Exec(ctx, insertEntryQuery, entryInsertArgs(modelEntry)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+modelEntry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// SaveReconciliation persists one adjustment entry and overrides the
// account's stored balance, atomically. The account row is locked first and
// the balance the adjustment was computed against is re-verified under the
// lock, so two concurrent reconciliations cannot both post.
func (r *PgxLedgerRepository) SaveReconciliation(ctx context.Context, entry domain.LedgerEntry, accountID string, observedBalance, newBalance decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.verifyBalanceUnderLock(ctx, tx, accountID, observedBalance); err != nil {
		return err
	}

	modelEntry := mapping.ToModelLedgerEntry(entry)
	if _, err := tx.Exec(ctx, insertEntryQuery, entryInsertArgs(modelEntry)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation entry "+modelEntry.EntryID, err)
	}

	if err := r.accountRepo.SetAccountBalanceInTx(ctx, tx, accountID, newBalance, entry.CreatedBy, entry.CreatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to override balance for account "+accountID, err)
	}

	return r.Commit(ctx, tx)
}

// SaveStatementImport persists a batch of imported entries and overrides the
// account's stored balance with the statement closing balance, atomically.
// The account row is locked first and the balance the import was computed
// against is re-verified under the lock. The balance override applies even
// when the statement carried no rows.
func (r *PgxLedgerRepository) SaveStatementImport(ctx context.Context, entries []domain.LedgerEntry, accountID string, observedBalance, closingBalance decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.verifyBalanceUnderLock(ctx, tx, accountID, observedBalance); err != nil {
		return err
	}

	if len(entries) > 0 {
		batch := &pgx.Batch{}
		for _, entry := range entries {
			batch.Queue(insertEntryQuery, entryInsertArgs(mapping.ToModelLedgerEntry(entry))...)
		}

		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute statement entry batch for account "+accountID, err)
		}
	}

	if err := r.accountRepo.SetAccountBalanceInTx(ctx, tx, accountID, closingBalance, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to override balance for account "+accountID, err)
	}

	return r.Commit(ctx, tx)
}

// verifyBalanceUnderLock locks the account row and checks that its balance
// still equals the one the caller computed against. A moved balance means a
// concurrent write landed between the read and this transaction.
func (r *PgxLedgerRepository) verifyBalanceUnderLock(ctx context.Context, tx pgx.Tx, accountID string, observedBalance decimal.Decimal) error {
	locked, err := r.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}
	if !locked.Balance.Equal(observedBalance) {
		return fmt.Errorf("%w: balance of account %s moved from %s to %s",
			apperrors.ErrConflict, accountID, observedBalance, locked.Balance)
	}
	return nil
}

// legColumn maps an entry side to its leg column name.
func legColumn(side domain.EntrySide) string {
	if side == domain.Debit {
		return "debit_account"
	}
	return "credit_account"
}

// AssignEntryLeg sets one leg of an entry to an account code. The update is
// conditional on the leg still holding the unassigned sentinel; a concurrent
// assignment makes the update match zero rows and surfaces as ErrConflict.
func (r *PgxLedgerRepository) AssignEntryLeg(ctx context.Context, entryID string, side domain.EntrySide, accountCode string, userID string, now time.Time) error {
	column := legColumn(side)
	query := `
		UPDATE ledger_entries
		SET ` + column + ` = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND ` + column + ` = $5;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, entryID, accountCode, now, userID, models.UnassignedLeg)
	if err != nil {
		return fmt.Errorf("failed to assign %s leg of entry %s: %w", side, entryID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing entry from a lost assignment race.
		if _, findErr := r.FindEntryByID(ctx, entryID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: %s leg of entry %s is already assigned", apperrors.ErrConflict, side, entryID)
	}

	return nil
}

// TagClassification applies a classification tag to entries whose legs join
// to an account owned by userID.
func (r *PgxLedgerRepository) TagClassification(ctx context.Context, entryIDs []string, classification domain.Classification, userID string, now time.Time) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE ledger_entries e
		SET classification = $2, last_updated_at = $3, last_updated_by = $4
		WHERE e.entry_id = ANY($1)
		  AND EXISTS (
			SELECT 1 FROM accounts a
			WHERE a.user_id = $5 AND a.code IN (e.debit_account, e.credit_account)
		  );
	`

	cmdTag, err := r.Pool.Exec(ctx, query, entryIDs, string(classification), now, userID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to tag classification on entries: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteEntriesForOwner deletes entries whose legs join to an account owned
// by userID. Entries of other users are silently left alone.
func (r *PgxLedgerRepository) DeleteEntriesForOwner(ctx context.Context, entryIDs []string, userID string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}

	query := `
		DELETE FROM ledger_entries e
		WHERE e.entry_id = ANY($1)
		  AND EXISTS (
			SELECT 1 FROM accounts a
			WHERE a.user_id = $2 AND a.code IN (e.debit_account, e.credit_account)
		  );
	`

	cmdTag, err := r.Pool.Exec(ctx, query, entryIDs, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// FindEntryByID retrieves an entry by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE entry_id = $1;
	`
	modelEntry, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	domainEntry := mapping.ToDomainLedgerEntry(modelEntry)
	return &domainEntry, nil
}

// FindEntriesByIDs retrieves multiple entries keyed by ID.
func (r *PgxLedgerRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.LedgerEntry, error) {
	if len(entryIDs) == 0 {
		return map[string]domain.LedgerEntry{}, nil
	}

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE entry_id = ANY($1);
	`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by IDs: %w", err)
	}
	defer rows.Close()

	entriesMap := make(map[string]domain.LedgerEntry)
	for rows.Next() {
		modelEntry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row during batch fetch: %w", err)
		}
		entriesMap[modelEntry.EntryID] = mapping.ToDomainLedgerEntry(modelEntry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows during batch fetch: %w", err)
	}

	return entriesMap, nil
}

// ListIncompleteEntries retrieves entries with an unassigned leg touching the
// given account code, newest first, with token pagination.
func (r *PgxLedgerRepository) ListIncompleteEntries(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	baseQuery := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE (debit_account = $1 OR credit_account = $1)
		  AND (debit_account = $2 OR credit_account = $2)
	`
	args := []interface{}{accountCode, models.UnassignedLeg}
	return r.listEntries(ctx, baseQuery, args, limit, nextToken)
}

// ListEntriesByAccount retrieves entries touching the given account code
// within an optional date range, newest first, with token pagination.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountCode string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	baseQuery := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE (debit_account = $1 OR credit_account = $1)
	`
	args := []interface{}{accountCode}
	if from != nil {
		baseQuery += ` AND entry_date >= $` + strconv.Itoa(len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		baseQuery += ` AND entry_date <= $` + strconv.Itoa(len(args)+1)
		args = append(args, *to)
	}
	return r.listEntries(ctx, baseQuery, args, limit, nextToken)
}

// listEntries runs a ledger listing query with the shared ordering and
// token-based pagination. Ordering must be stable; (entry_date,
// accounting_date) descending with the cursor as a tuple comparison.
func (r *PgxLedgerRepository) listEntries(ctx context.Context, baseQuery string, args []interface{}, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	orderByClause := `ORDER BY entry_date DESC, accounting_date DESC`

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastAccountingDate, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (entry_date, accounting_date) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastEntryDate, lastAccountingDate)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanLedgerEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row", scanErr)
		}
		modelEntries = append(modelEntries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.AccountingDate)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}
