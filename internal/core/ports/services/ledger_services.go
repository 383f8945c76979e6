package services

import (
	"context"

	"github.com/jsmitterc/remesafe/internal/core/domain"
	"github.com/jsmitterc/remesafe/internal/dto"
)

// LedgerSvcFacade exposes the ledger engine operations. Every operation is
// scoped to the calling user; entries and accounts of other users behave as
// if they do not exist.
type LedgerSvcFacade interface {
	// CreateEntry posts a manual balanced double entry.
	CreateEntry(ctx context.Context, userID string, req dto.CreateEntryRequest) (*domain.LedgerEntry, error)

	// GetEntry retrieves one entry, with its classification derived from the
	// perspective of the given account code when provided.
	GetEntry(ctx context.Context, userID string, entryID string, perspectiveCode string) (*domain.LedgerEntry, error)

	// Reconcile forces an account's stored balance to the reported bank
	// balance. A nil entry in the response means the balances already agreed
	// within tolerance and nothing was posted.
	Reconcile(ctx context.Context, userID string, accountID string, req dto.ReconcileRequest) (*domain.LedgerEntry, error)

	// ImportStatement verifies and posts a bank statement against an account,
	// returning the posted entries (including any opening adjustment).
	ImportStatement(ctx context.Context, userID string, stmt domain.Statement) ([]domain.LedgerEntry, error)

	// AssignAccount fills one unassigned leg of an incomplete entry.
	AssignAccount(ctx context.Context, userID string, entryID string, accountCode string, side domain.EntrySide) error

	// BulkAssign applies one leg assignment across many entries, skipping
	// entries whose target leg is already filled.
	BulkAssign(ctx context.Context, userID string, entryIDs []string, accountCode string, side domain.EntrySide) (*dto.BulkAssignResult, error)

	// SmartBulkAssign fills, per entry, whichever single leg is empty.
	// Entries with both legs empty or both filled are skipped.
	SmartBulkAssign(ctx context.Context, userID string, entryIDs []string, accountCode string) (*dto.BulkAssignResult, error)

	// BulkClassify tags a set of entries with a classification.
	BulkClassify(ctx context.Context, userID string, entryIDs []string, classification domain.Classification) (int64, error)

	// DeleteEntries removes entries owned by the user (through the account
	// join) and returns how many were deleted.
	DeleteEntries(ctx context.Context, userID string, entryIDs []string) (int64, error)

	// ListIncompleteEntries pages through entries awaiting assignment on an account.
	ListIncompleteEntries(ctx context.Context, userID string, accountCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListEntriesByAccount pages through an account's entries, each
	// classified from that account's perspective.
	ListEntriesByAccount(ctx context.Context, userID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
