package repositories

import (
	"context"
	"time"

	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
)

// ListEntriesFilter narrows a ListEntriesByAssociation query.
type ListEntriesFilter struct {
	Status     *domain.EntryStatus
	SourceType *domain.SourceType
}

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves a specific entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry, ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error)

	// ListEntriesByAssociation retrieves a paginated list of entry headers for
	// an association using token-based pagination. It returns the entries, a
	// token for the next page, and an error.
	ListEntriesByAssociation(ctx context.Context, associationID string, filter ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountEntriesByNumberPrefix counts entries of an association whose entry
	// number starts with the given prefix (e.g. "JE-2026-"). Used for sequence
	// issuance; uniqueness is still enforced by the storage constraint.
	CountEntriesByNumberPrefix(ctx context.Context, associationID string, prefix string) (int64, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveEntry persists an entry header together with all of its lines as a
	// single logical unit. A unique-constraint collision on the entry number
	// surfaces as apperrors.ErrDuplicate.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// MarkEntryPosted flips a draft entry to posted. The update is conditional
	// on the current status being draft; a concurrent poster loses with
	// apperrors.ErrInvalidState, a missing entry with apperrors.ErrNotFound.
	MarkEntryPosted(ctx context.Context, entryID string, postedAt time.Time) error

	// MarkEntryReversed flips a posted entry to reversed, recording the reason
	// and the compensating entry's ID. Conditional on status being posted.
	MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, reason string, reversedAt time.Time) error

	// DeleteEntry removes a draft entry and all of its lines. Conditional on
	// status being draft.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalEntryRepositoryFacade combines all journal-entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}

// JournalEntryRepositoryWithTx extends the facade with transaction capabilities.
type JournalEntryRepositoryWithTx interface {
	JournalEntryRepositoryFacade
	TransactionManager
}
