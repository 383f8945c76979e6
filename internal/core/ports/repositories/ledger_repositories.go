package repositories

import (
	"context"
	"time"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	// FindEntryByID retrieves a single entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindEntriesByIDs retrieves multiple entries keyed by ID.
	FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.LedgerEntry, error)

	// ListIncompleteEntries retrieves entries with an unassigned leg touching
	// the given account code, newest first, with token pagination.
	ListIncompleteEntries(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListEntriesByAccount retrieves entries touching the given account code
	// within an optional date range, newest first, with token pagination.
	ListEntriesByAccount(ctx context.Context, accountCode string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines write operations for ledger entries. Every method
// that touches more than one row executes as a single database transaction:
// either everything is applied or nothing is.
type LedgerWriter interface {
	// SaveEntry persists one balanced entry and applies the given balance
	// deltas to the affected accounts, stamping running-balance snapshots
	// from the locked balances.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error

	// SaveReconciliation persists one adjustment entry and overrides the
	// account's stored balance, atomically. The account row is locked for the
	// duration; if the locked balance no longer equals observedBalance (the
	// adjustment was computed against a stale balance) it fails with
	// ErrConflict and nothing is applied.
	SaveReconciliation(ctx context.Context, entry domain.LedgerEntry, accountID string, observedBalance, newBalance decimal.Decimal) error

	// SaveStatementImport persists a batch of imported entries and overrides
	// the account's stored balance with the statement closing balance,
	// atomically. The account row is locked for the duration; a locked
	// balance that no longer equals observedBalance fails with ErrConflict.
	// The balance override applies even when entries is empty.
	SaveStatementImport(ctx context.Context, entries []domain.LedgerEntry, accountID string, observedBalance, closingBalance decimal.Decimal, userID string, now time.Time) error

	// AssignEntryLeg sets the given leg of an entry to an account code. The
	// update is conditional on the leg still being unassigned; a lost race
	// surfaces as ErrConflict.
	AssignEntryLeg(ctx context.Context, entryID string, side domain.EntrySide, accountCode string, userID string, now time.Time) error

	// TagClassification applies a classification tag to a set of entries and
	// returns the number of rows updated.
	TagClassification(ctx context.Context, entryIDs []string, classification domain.Classification, userID string, now time.Time) (int64, error)

	// DeleteEntriesForOwner deletes entries whose legs join to an account
	// owned by userID, and returns the number of rows deleted.
	DeleteEntriesForOwner(ctx context.Context, entryIDs []string, userID string) (int64, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
