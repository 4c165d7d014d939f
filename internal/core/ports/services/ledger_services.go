package services

import (
	"context"

	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
	"github.com/hoaworks/hoa_ledger_app/internal/dto"
)

// LedgerReaderSvc defines read operations for journal entry data.
type LedgerReaderSvc interface {
	// GetEntry retrieves an entry with its lines, scoped to an association.
	GetEntry(ctx context.Context, associationID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for an association.
	ListEntries(ctx context.Context, associationID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// LedgerWriterSvc defines the mutating ledger operations.
type LedgerWriterSvc interface {
	// CreateEntry validates and persists a new draft entry with its lines.
	CreateEntry(ctx context.Context, associationID string, req dto.CreateEntryRequest) (*domain.JournalEntry, error)

	// PostEntry finalizes a draft entry so it becomes immutable.
	PostEntry(ctx context.Context, associationID string, entryID string) error

	// ReverseEntry creates and posts a compensating entry for a posted entry,
	// then marks the original reversed. Returns the new reversing entry.
	ReverseEntry(ctx context.Context, associationID string, entryID string, reason string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry and its lines.
	DeleteEntry(ctx context.Context, associationID string, entryID string) error
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
