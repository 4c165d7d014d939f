// Package memory provides an in-memory JournalEntryRepository used as a test
// double. It mirrors the semantics of the pgsql implementation: entry-number
// uniqueness per association, conditional status flips, and all-or-nothing
// WithTx blocks (changes are applied to a copy and swapped in on success).
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hoaworks/hoa_ledger_app/internal/apperrors"
	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaworks/hoa_ledger_app/internal/core/ports/repositories"
	"github.com/hoaworks/hoa_ledger_app/internal/utils/pagination"
)

// state holds the stored entries and lines. Methods on state assume the
// caller handles synchronization.
type state struct {
	entries map[string]domain.JournalEntry
	lines   map[string][]domain.JournalEntryLine
}

func newState() *state {
	return &state{
		entries: make(map[string]domain.JournalEntry),
		lines:   make(map[string][]domain.JournalEntryLine),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, entry := range s.entries {
		entry.Lines = nil
		c.entries[id] = entry
	}
	for id, lines := range s.lines {
		copied := make([]domain.JournalEntryLine, len(lines))
		copy(copied, lines)
		c.lines[id] = copied
	}
	return c
}

func (s *state) saveEntry(entry domain.JournalEntry) error {
	for _, existing := range s.entries {
		if existing.AssociationID == entry.AssociationID && existing.EntryNumber == entry.EntryNumber {
			return apperrors.ErrDuplicate
		}
	}

	lines := make([]domain.JournalEntryLine, len(entry.Lines))
	copy(lines, entry.Lines)
	entry.Lines = nil

	s.entries[entry.EntryID] = entry
	s.lines[entry.EntryID] = lines
	return nil
}

func (s *state) findEntryByID(entryID string) (*domain.JournalEntry, error) {
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

func (s *state) findLinesByEntryID(entryID string) ([]domain.JournalEntryLine, error) {
	lines := make([]domain.JournalEntryLine, len(s.lines[entryID]))
	copy(lines, s.lines[entryID])
	sort.Slice(lines, func(i, j int) bool { return lines[i].LineNumber < lines[j].LineNumber })
	return lines, nil
}

func (s *state) countEntriesByNumberPrefix(associationID, prefix string) int64 {
	var count int64
	for _, entry := range s.entries {
		if entry.AssociationID == associationID && strings.HasPrefix(entry.EntryNumber, prefix) {
			count++
		}
	}
	return count
}

func (s *state) markEntryPosted(entryID string, postedAt time.Time) error {
	entry, ok := s.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry status is %s, expected %s", apperrors.ErrInvalidState, entry.Status, domain.Draft)
	}
	entry.Status = domain.Posted
	entry.PostedAt = &postedAt
	entry.UpdatedAt = postedAt
	s.entries[entryID] = entry
	return nil
}

func (s *state) markEntryReversed(entryID, reversingEntryID, reason string, reversedAt time.Time) error {
	entry, ok := s.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	if entry.Status != domain.Posted {
		return fmt.Errorf("%w: entry status is %s, expected %s", apperrors.ErrInvalidState, entry.Status, domain.Posted)
	}
	entry.Status = domain.Reversed
	entry.ReversedAt = &reversedAt
	entry.ReversalReason = &reason
	entry.ReversingEntryID = &reversingEntryID
	entry.UpdatedAt = reversedAt
	s.entries[entryID] = entry
	return nil
}

func (s *state) deleteEntry(entryID string) error {
	entry, ok := s.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry status is %s, expected %s", apperrors.ErrInvalidState, entry.Status, domain.Draft)
	}
	delete(s.entries, entryID)
	delete(s.lines, entryID)
	return nil
}

func (s *state) listEntriesByAssociation(associationID string, filter portsrepo.ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	matched := make([]domain.JournalEntry, 0)
	for _, entry := range s.entries {
		if entry.AssociationID != associationID {
			continue
		}
		if filter.Status != nil && entry.Status != *filter.Status {
			continue
		}
		if filter.SourceType != nil && entry.SourceType != *filter.SourceType {
			continue
		}
		matched = append(matched, entry)
	}

	// Same stable ordering as the pgsql implementation.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].EntryDate.Equal(matched[j].EntryDate) {
			return matched[i].EntryDate.After(matched[j].EntryDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		filtered := matched[:0]
		for _, entry := range matched {
			if entry.EntryDate.Before(lastEntryDate) ||
				(entry.EntryDate.Equal(lastEntryDate) && entry.CreatedAt.Before(lastCreatedAt)) {
				filtered = append(filtered, entry)
			}
		}
		matched = filtered
	}

	var token *string
	if len(matched) > limit {
		last := matched[limit-1]
		encoded := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &encoded
		matched = matched[:limit]
	}
	return matched, token, nil
}

// JournalEntryRepository is the synchronized, committed view of the store.
type JournalEntryRepository struct {
	mu sync.Mutex
	st *state
}

// NewJournalEntryRepository creates an empty in-memory repository.
func NewJournalEntryRepository() *JournalEntryRepository {
	return &JournalEntryRepository{st: newState()}
}

var _ portsrepo.JournalEntryRepositoryWithTx = (*JournalEntryRepository)(nil)

// WithTx runs fn against a cloned state and swaps it in only when fn
// succeeds, giving the same all-or-nothing behavior as a database transaction.
func (r *JournalEntryRepository) WithTx(ctx context.Context, fn func(txRepo portsrepo.JournalEntryRepositoryFacade) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &txRepository{st: r.st.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	r.st = tx.st
	return nil
}

func (r *JournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.saveEntry(entry)
}

func (r *JournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.findEntryByID(entryID)
}

func (r *JournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.findLinesByEntryID(entryID)
}

func (r *JournalEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	linesMap := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for _, id := range entryIDs {
		lines, err := r.st.findLinesByEntryID(id)
		if err != nil {
			return nil, err
		}
		linesMap[id] = lines
	}
	return linesMap, nil
}

func (r *JournalEntryRepository) CountEntriesByNumberPrefix(ctx context.Context, associationID string, prefix string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.countEntriesByNumberPrefix(associationID, prefix), nil
}

func (r *JournalEntryRepository) ListEntriesByAssociation(ctx context.Context, associationID string, filter portsrepo.ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.listEntriesByAssociation(associationID, filter, limit, nextToken)
}

func (r *JournalEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, postedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.markEntryPosted(entryID, postedAt)
}

func (r *JournalEntryRepository) MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, reason string, reversedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.markEntryReversed(entryID, reversingEntryID, reason, reversedAt)
}

func (r *JournalEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.deleteEntry(entryID)
}

// txRepository is the unsynchronized, transaction-scoped view handed to
// WithTx callbacks. It operates on a private clone of the store.
type txRepository struct {
	st *state
}

var _ portsrepo.JournalEntryRepositoryFacade = (*txRepository)(nil)

func (t *txRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return t.st.saveEntry(entry)
}

func (t *txRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return t.st.findEntryByID(entryID)
}

func (t *txRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	return t.st.findLinesByEntryID(entryID)
}

func (t *txRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	linesMap := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for _, id := range entryIDs {
		lines, err := t.st.findLinesByEntryID(id)
		if err != nil {
			return nil, err
		}
		linesMap[id] = lines
	}
	return linesMap, nil
}

func (t *txRepository) CountEntriesByNumberPrefix(ctx context.Context, associationID string, prefix string) (int64, error) {
	return t.st.countEntriesByNumberPrefix(associationID, prefix), nil
}

func (t *txRepository) ListEntriesByAssociation(ctx context.Context, associationID string, filter portsrepo.ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	return t.st.listEntriesByAssociation(associationID, filter, limit, nextToken)
}

func (t *txRepository) MarkEntryPosted(ctx context.Context, entryID string, postedAt time.Time) error {
	return t.st.markEntryPosted(entryID, postedAt)
}

func (t *txRepository) MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, reason string, reversedAt time.Time) error {
	return t.st.markEntryReversed(entryID, reversingEntryID, reason, reversedAt)
}

func (t *txRepository) DeleteEntry(ctx context.Context, entryID string) error {
	return t.st.deleteEntry(entryID)
}
