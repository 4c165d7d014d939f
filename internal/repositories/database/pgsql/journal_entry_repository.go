package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoaworks/hoa_ledger_app/internal/apperrors"
	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaworks/hoa_ledger_app/internal/core/ports/repositories"
	"github.com/hoaworks/hoa_ledger_app/internal/models"
	"github.com/hoaworks/hoa_ledger_app/internal/utils/mapping"
	"github.com/hoaworks/hoa_ledger_app/internal/utils/pagination"
)

const entryColumns = `entry_id, association_id, entry_number, entry_date, description,
	       reference_number, source_type, total_amount, status,
	       posted_at, reversed_at, reversal_reason, original_entry_id, reversing_entry_id,
	       created_at, updated_at`

// PgxJournalEntryRepository persists journal entries and their lines in PostgreSQL.
type PgxJournalEntryRepository struct {
	db   DBTX
	pool *pgxpool.Pool // nil when the repository is bound to a transaction
}

// NewPgxJournalEntryRepository creates a new repository for journal entry data.
func NewPgxJournalEntryRepository(pool *pgxpool.Pool) portsrepo.JournalEntryRepositoryWithTx {
	return &PgxJournalEntryRepository{db: pool, pool: pool}
}

var _ portsrepo.JournalEntryRepositoryWithTx = (*PgxJournalEntryRepository)(nil)

// WithTx runs fn against a repository bound to a single database transaction.
// Nested calls reuse the enclosing transaction.
func (r *PgxJournalEntryRepository) WithTx(ctx context.Context, fn func(txRepo portsrepo.JournalEntryRepositoryFacade) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	txRepo := &PgxJournalEntryRepository{db: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// SaveEntry inserts an entry header and all of its lines. Callers that need
// the pair to be atomic run it inside WithTx; an entry-number collision maps
// to apperrors.ErrDuplicate so the service can reissue and retry.
func (r *PgxJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	modelEntry := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, association_id, entry_number, entry_date, description,
			reference_number, source_type, total_amount, status,
			posted_at, reversed_at, reversal_reason, original_entry_id, reversing_entry_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.db.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.AssociationID,
		modelEntry.EntryNumber,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.ReferenceNumber,
		modelEntry.SourceType,
		modelEntry.TotalAmount,
		modelEntry.Status,
		modelEntry.PostedAt,
		modelEntry.ReversedAt,
		modelEntry.ReversalReason,
		modelEntry.OriginalEntryID,
		modelEntry.ReversingEntryID,
		modelEntry.CreatedAt,
		modelEntry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, line_number, gl_account_id, description, debit_amount, credit_amount, property_id, vendor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, line := range entry.Lines {
		modelLine := mapping.ToModelJournalEntryLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.LineNumber,
			modelLine.GLAccountID,
			modelLine.Description,
			modelLine.DebitAmount,
			modelLine.CreditAmount,
			modelLine.PropertyID,
			modelLine.VendorID,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+modelEntry.EntryID, err)
	}

	return nil
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	var m models.JournalEntry
	err := r.db.QueryRow(ctx, query, entryID).Scan(
		&m.EntryID,
		&m.AssociationID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.ReferenceNumber,
		&m.SourceType,
		&m.TotalAmount,
		&m.Status,
		&m.PostedAt,
		&m.ReversedAt,
		&m.ReversalReason,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry, ordered by line number.
func (r *PgxJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, line_number, gl_account_id, description, debit_amount, credit_amount, property_id, vendor_id
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_number;
	`
	rows, err := r.db.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalEntryLine{}
	for rows.Next() {
		var l models.JournalEntryLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.LineNumber,
			&l.GLAccountID,
			&l.Description,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.PropertyID,
			&l.VendorID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal entry "+entryID, err)
	}

	return mapping.ToDomainJournalEntryLineSlice(lines), nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxJournalEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalEntryLine{}, nil
	}

	query := `
		SELECT line_id, entry_id, line_number, gl_account_id, description, debit_amount, credit_amount, property_id, vendor_id
		FROM journal_entry_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_number;
	`
	rows, err := r.db.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal entries", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalEntryLine)
	for rows.Next() {
		var l models.JournalEntryLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.LineNumber,
			&l.GLAccountID,
			&l.Description,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.PropertyID,
			&l.VendorID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row during batch fetch", err)
		}
		domainLine := mapping.ToDomainJournalEntryLine(l)
		linesMap[domainLine.EntryID] = append(linesMap[domainLine.EntryID], domainLine)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows during batch fetch", err)
	}

	return linesMap, nil
}

// CountEntriesByNumberPrefix counts an association's entries whose entry
// number starts with the given prefix.
func (r *PgxJournalEntryRepository) CountEntriesByNumberPrefix(ctx context.Context, associationID string, prefix string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_entries
		WHERE association_id = $1 AND entry_number LIKE $2 || '%';
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, associationID, prefix).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count journal entries for association "+associationID, err)
	}
	return count, nil
}

// ListEntriesByAssociation retrieves a paginated list of entry headers using
// token-based pagination on (entry_date, created_at) descending.
func (r *PgxJournalEntryRepository) ListEntriesByAssociation(ctx context.Context, associationID string, filter portsrepo.ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE association_id = $1`
	args := []any{associationID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.SourceType != nil {
		args = append(args, string(*filter.SourceType))
		query += ` AND source_type = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, lastEntryDate, lastCreatedAt)
		query += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for association "+associationID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.AssociationID,
			&m.EntryNumber,
			&m.EntryDate,
			&m.Description,
			&m.ReferenceNumber,
			&m.SourceType,
			&m.TotalAmount,
			&m.Status,
			&m.PostedAt,
			&m.ReversedAt,
			&m.ReversalReason,
			&m.OriginalEntryID,
			&m.ReversingEntryID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row for association "+associationID, err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows for association "+associationID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

// MarkEntryPosted flips a draft entry to posted. The status guard in the WHERE
// clause serializes concurrent posters; the loser sees ErrInvalidState.
func (r *PgxJournalEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, posted_at = $3, updated_at = $3
		WHERE entry_id = $1 AND status = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, entryID, models.Posted, postedAt, models.Draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to post journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.stateConflict(ctx, entryID, domain.Draft)
	}
	return nil
}

// MarkEntryReversed flips a posted entry to reversed, recording the reason and
// the compensating entry's ID. Conditional on the current status being posted.
func (r *PgxJournalEntryRepository) MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, reason string, reversedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, reversed_at = $3, reversal_reason = $4, reversing_entry_id = $5, updated_at = $3
		WHERE entry_id = $1 AND status = $6;
	`
	cmdTag, err := r.db.Exec(ctx, query, entryID, models.Reversed, reversedAt, reason, reversingEntryID, models.Posted)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reverse journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.stateConflict(ctx, entryID, domain.Posted)
	}
	return nil
}

// DeleteEntry removes a draft entry; its lines are removed by the cascade.
func (r *PgxJournalEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	query := `DELETE FROM journal_entries WHERE entry_id = $1 AND status = $2;`
	cmdTag, err := r.db.Exec(ctx, query, entryID, models.Draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.stateConflict(ctx, entryID, domain.Draft)
	}
	return nil
}

// stateConflict explains a zero-row conditional update: either the entry never
// existed or it sits in a state that forbids the transition.
func (r *PgxJournalEntryRepository) stateConflict(ctx context.Context, entryID string, required domain.EntryStatus) error {
	var status models.EntryStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1;`, entryID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("journal entry " + entryID)
		}
		return apperrors.NewAppError(500, "failed to check status of journal entry "+entryID, err)
	}
	return fmt.Errorf("%w: entry status is %s, expected %s", apperrors.ErrInvalidState, status, required)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
