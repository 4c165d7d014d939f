package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hoaworks/hoa_ledger_app/internal/apperrors"
	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaworks/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaworks/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaworks/hoa_ledger_app/internal/dto"
	"github.com/hoaworks/hoa_ledger_app/internal/middleware"
)

var (
	ErrTooFewLines    = fmt.Errorf("%w: journal entry must have at least 2 lines", apperrors.ErrValidation)
	ErrUnbalanced     = fmt.Errorf("%w: debits must equal credits", apperrors.ErrValidation)
	ErrLineBothSides  = fmt.Errorf("%w: line cannot have both debit and credit", apperrors.ErrValidation)
	ErrLineNoSide     = fmt.Errorf("%w: line must have either debit or credit", apperrors.ErrValidation)
	ErrNegativeAmount = fmt.Errorf("%w: line amounts cannot be negative", apperrors.ErrValidation)
)

// balanceTolerance absorbs sub-cent rounding in amounts that originated as
// binary floating point upstream.
var balanceTolerance = decimal.NewFromFloat(0.01)

// entryNumberAttempts bounds retries when concurrent creators collide on the
// same entry number for an association/year.
const entryNumberAttempts = 3

// ledgerService enforces double-entry bookkeeping correctness for journal
// entry create/post/reverse/delete operations, independent of the storage medium.
type ledgerService struct {
	entryRepo portsrepo.JournalEntryRepositoryWithTx
}

// NewLedgerService creates a new ledger service backed by the given repository.
func NewLedgerService(entryRepo portsrepo.JournalEntryRepositoryWithTx) portssvc.LedgerSvcFacade {
	return &ledgerService{entryRepo: entryRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateEntryLines checks the double-entry invariants shared by create and
// post: at least two lines, debits equal credits within tolerance, and each
// line carrying exactly one positive side. Rules are checked in that order so
// the first violated rule is the one reported.
func validateEntryLines(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return ErrTooFewLines
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
	}
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(balanceTolerance) {
		return fmt.Errorf("%w: total debits %s, total credits %s", ErrUnbalanced, totalDebit, totalCredit)
	}

	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("%w (line %d)", ErrNegativeAmount, i+1)
		}
		hasDebit := line.DebitAmount.IsPositive()
		hasCredit := line.CreditAmount.IsPositive()
		if hasDebit && hasCredit {
			return fmt.Errorf("%w (line %d)", ErrLineBothSides, i+1)
		}
		if !hasDebit && !hasCredit {
			return fmt.Errorf("%w (line %d)", ErrLineNoSide, i+1)
		}
	}

	return nil
}

// totalDebits computes the entry's TotalAmount: the sum of the debit side,
// which for a balanced entry equals the credit side.
func totalDebits(lines []domain.JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.DebitAmount)
	}
	return total
}

// generateEntryNumber issues the next JE-<year>-<NNNN> number for an
// association. Gaps from deleted drafts are tolerated; uniqueness is
// guaranteed by the storage constraint, with the caller retrying on conflict.
func (s *ledgerService) generateEntryNumber(ctx context.Context, repo portsrepo.JournalEntryReader, associationID string, year int) (string, error) {
	prefix := fmt.Sprintf("JE-%d-", year)
	count, err := repo.CountEntriesByNumberPrefix(ctx, associationID, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count entries for number generation: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// CreateEntry validates and persists a new draft journal entry with its lines.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) CreateEntry(ctx context.Context, associationID string, req dto.CreateEntryRequest) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	entryID := uuid.NewString()

	sourceType := domain.SourceType(req.SourceType)
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNumber:   i + 1,
			GLAccountID:  lineReq.GLAccountID,
			Description:  lineReq.Description,
			DebitAmount:  lineReq.DebitAmount,
			CreditAmount: lineReq.CreditAmount,
			PropertyID:   lineReq.PropertyID,
			VendorID:     lineReq.VendorID,
		}
	}

	// Nothing is persisted unless every invariant holds.
	if err := validateEntryLines(lines); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:         entryID,
		AssociationID:   associationID,
		EntryDate:       req.EntryDate,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
		SourceType:      sourceType,
		TotalAmount:     totalDebits(lines),
		Status:          domain.Draft,
		Lines:           lines,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	// Number issuance and the insert run in one transaction; a concurrent
	// creator that claims the same number trips the unique constraint and we
	// recompute on a fresh transaction.
	var saveErr error
	for attempt := 0; attempt < entryNumberAttempts; attempt++ {
		saveErr = s.entryRepo.WithTx(ctx, func(txRepo portsrepo.JournalEntryRepositoryFacade) error {
			number, err := s.generateEntryNumber(ctx, txRepo, associationID, now.Year())
			if err != nil {
				return err
			}
			entry.EntryNumber = number
			return txRepo.SaveEntry(ctx, entry)
		})
		if !errors.Is(saveErr, apperrors.ErrDuplicate) {
			break
		}
		logger.Warn("Entry number collision, retrying",
			slog.String("association_id", associationID),
			slog.String("entry_number", entry.EntryNumber),
			slog.Int("attempt", attempt+1))
	}
	if saveErr != nil {
		logger.Error("Failed to save journal entry", slog.String("error", saveErr.Error()), slog.String("association_id", associationID))
		return nil, fmt.Errorf("failed to save journal entry: %w", saveErr)
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("association_id", associationID))
	return &entry, nil
}

// findScopedEntry fetches an entry and verifies it belongs to the requested
// association, reporting ErrNotFound otherwise to avoid leaking existence
// across tenants.
func findScopedEntry(ctx context.Context, repo portsrepo.JournalEntryReader, associationID, entryID string) (*domain.JournalEntry, error) {
	entry, err := repo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.AssociationID != associationID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// GetEntry retrieves an entry with its lines.
// Implements portssvc.LedgerReaderSvc.
func (s *ledgerService) GetEntry(ctx context.Context, associationID string, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := findScopedEntry(ctx, s.entryRepo, associationID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines

	return entry, nil
}

// ListEntries retrieves a paginated list of entries for an association.
// Implements portssvc.LedgerReaderSvc.
func (s *ledgerService) ListEntries(ctx context.Context, associationID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := portsrepo.ListEntriesFilter{}
	if params.Status != nil {
		status := domain.EntryStatus(*params.Status)
		switch status {
		case domain.Draft, domain.Posted, domain.Reversed:
			filter.Status = &status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *params.Status)
		}
	}
	if params.SourceType != nil {
		sourceType := domain.SourceType(*params.SourceType)
		filter.SourceType = &sourceType
	}

	entries, nextToken, err := s.entryRepo.ListEntriesByAssociation(ctx, associationID, filter, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()), slog.String("association_id", associationID))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	var linesMap map[string][]domain.JournalEntryLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, entry := range entries {
			entryIDs[i] = entry.EntryID
		}
		linesMap, err = s.entryRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			logger.Error("Failed to batch fetch entry lines", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to retrieve entry lines: %w", err)
		}
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		if linesMap != nil {
			entries[i].Lines = linesMap[entries[i].EntryID]
		}
		responses[i] = dto.ToEntryResponse(&entries[i])
	}

	logger.Debug("Journal entries listed", slog.Int("count", len(entries)), slog.String("association_id", associationID))
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// PostEntry finalizes a draft entry. The balance invariant is re-validated
// against the stored lines, and the status flip is conditional so concurrent
// posters serialize.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) PostEntry(ctx context.Context, associationID string, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.entryRepo.WithTx(ctx, func(txRepo portsrepo.JournalEntryRepositoryFacade) error {
		entry, err := findScopedEntry(ctx, txRepo, associationID, entryID)
		if err != nil {
			return err
		}

		lifecycle := domain.NewEntryLifecycle(entry)
		if err := lifecycle.Post(ctx); err != nil {
			return err
		}

		lines, err := txRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
		}
		if err := validateEntryLines(lines); err != nil {
			return err
		}

		return txRepo.MarkEntryPosted(ctx, entryID, time.Now().UTC())
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Cannot post journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		} else {
			logger.Error("Failed to post journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		}
		return err
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("association_id", associationID))
	return nil
}

// ReverseEntry creates a compensating entry with debit and credit sides
// swapped line-for-line, posts it, and only then marks the original reversed.
// All three steps share one transaction, so a failure leaves no partial state.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) ReverseEntry(ctx context.Context, associationID string, entryID string, reason string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var reversing domain.JournalEntry
	var reverseErr error
	for attempt := 0; attempt < entryNumberAttempts; attempt++ {
		reverseErr = s.entryRepo.WithTx(ctx, func(txRepo portsrepo.JournalEntryRepositoryFacade) error {
			original, err := findScopedEntry(ctx, txRepo, associationID, entryID)
			if err != nil {
				return err
			}

			lifecycle := domain.NewEntryLifecycle(original)
			if err := lifecycle.Reverse(ctx); err != nil {
				return err
			}

			originalLines, err := txRepo.FindLinesByEntryID(ctx, entryID)
			if err != nil {
				return fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
			}

			now := time.Now().UTC()
			reversingID := uuid.NewString()

			lines := make([]domain.JournalEntryLine, len(originalLines))
			for i, origLine := range originalLines {
				line := origLine.Reversed()
				line.LineID = uuid.NewString()
				line.EntryID = reversingID
				line.LineNumber = i + 1
				lines[i] = line
			}

			reversing = domain.JournalEntry{
				EntryID:         reversingID,
				AssociationID:   associationID,
				EntryDate:       original.EntryDate,
				Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
				ReferenceNumber: original.EntryNumber,
				SourceType:      domain.SourceAdjustment,
				TotalAmount:     totalDebits(lines),
				Status:          domain.Draft,
				OriginalEntryID: &original.EntryID,
				Lines:           lines,
				AuditFields: domain.AuditFields{
					CreatedAt: now,
					UpdatedAt: now,
				},
			}

			// A balanced entry stays balanced with its sides swapped, but the
			// compensating entry goes through the same gate as any other.
			if err := validateEntryLines(lines); err != nil {
				return err
			}

			number, err := s.generateEntryNumber(ctx, txRepo, associationID, now.Year())
			if err != nil {
				return err
			}
			reversing.EntryNumber = number

			if err := txRepo.SaveEntry(ctx, reversing); err != nil {
				return err
			}
			if err := txRepo.MarkEntryPosted(ctx, reversingID, now); err != nil {
				return fmt.Errorf("failed to post reversing entry: %w", err)
			}
			reversing.Status = domain.Posted
			reversing.PostedAt = &now
			reversing.UpdatedAt = now

			if err := txRepo.MarkEntryReversed(ctx, original.EntryID, reversingID, reason, now); err != nil {
				return fmt.Errorf("failed to mark original entry reversed: %w", err)
			}
			return nil
		})
		if !errors.Is(reverseErr, apperrors.ErrDuplicate) {
			break
		}
		logger.Warn("Entry number collision during reversal, retrying",
			slog.String("association_id", associationID),
			slog.Int("attempt", attempt+1))
	}
	if reverseErr != nil {
		if errors.Is(reverseErr, apperrors.ErrNotFound) || errors.Is(reverseErr, apperrors.ErrInvalidState) {
			logger.Warn("Cannot reverse journal entry", slog.String("entry_id", entryID), slog.String("error", reverseErr.Error()))
		} else {
			logger.Error("Failed to reverse journal entry", slog.String("entry_id", entryID), slog.String("error", reverseErr.Error()))
		}
		return nil, reverseErr
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversing.EntryID),
		slog.String("association_id", associationID))
	return &reversing, nil
}

// DeleteEntry removes a draft entry and its lines. Posted and reversed
// entries are permanently retained for audit purposes.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) DeleteEntry(ctx context.Context, associationID string, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.entryRepo.WithTx(ctx, func(txRepo portsrepo.JournalEntryRepositoryFacade) error {
		entry, err := findScopedEntry(ctx, txRepo, associationID, entryID)
		if err != nil {
			return err
		}

		if !domain.NewEntryLifecycle(entry).CanDelete() {
			return fmt.Errorf("%w: entry status is %s, expected %s", apperrors.ErrInvalidState, entry.Status, domain.Draft)
		}

		return txRepo.DeleteEntry(ctx, entryID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Cannot delete journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		} else {
			logger.Error("Failed to delete journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		}
		return err
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID), slog.String("association_id", associationID))
	return nil
}
