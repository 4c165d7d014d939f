package mapping

import (
	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
	"github.com/hoaworks/hoa_ledger_app/internal/models"
)

// ToModelJournalEntry converts a domain entry header to its database model.
func ToModelJournalEntry(e domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          e.EntryID,
		AssociationID:    e.AssociationID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		ReferenceNumber:  e.ReferenceNumber,
		SourceType:       string(e.SourceType),
		TotalAmount:      e.TotalAmount,
		Status:           models.EntryStatus(e.Status),
		PostedAt:         e.PostedAt,
		ReversedAt:       e.ReversedAt,
		ReversalReason:   e.ReversalReason,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ToDomainJournalEntry converts a database model to a domain entry header.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		AssociationID:    m.AssociationID,
		EntryNumber:      m.EntryNumber,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		ReferenceNumber:  m.ReferenceNumber,
		SourceType:       domain.SourceType(m.SourceType),
		TotalAmount:      m.TotalAmount,
		Status:           domain.EntryStatus(m.Status),
		PostedAt:         m.PostedAt,
		ReversedAt:       m.ReversedAt,
		ReversalReason:   m.ReversalReason,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToModelJournalEntryLine converts a domain line to its database model.
func ToModelJournalEntryLine(l domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:       l.LineID,
		EntryID:      l.EntryID,
		LineNumber:   l.LineNumber,
		GLAccountID:  l.GLAccountID,
		Description:  l.Description,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		PropertyID:   l.PropertyID,
		VendorID:     l.VendorID,
	}
}

// ToDomainJournalEntryLine converts a database model to a domain line.
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNumber:   m.LineNumber,
		GLAccountID:  m.GLAccountID,
		Description:  m.Description,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		PropertyID:   m.PropertyID,
		VendorID:     m.VendorID,
	}
}

// ToDomainJournalEntryLineSlice converts a slice of line models to domain lines.
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		lines[i] = ToDomainJournalEntryLine(m)
	}
	return lines
}
