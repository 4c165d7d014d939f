package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "draft"
	Posted   EntryStatus = "posted"
	Reversed EntryStatus = "reversed"
)

// SourceType tags the provenance of a journal entry.
type SourceType string

const (
	SourceManual     SourceType = "manual"
	SourceAdjustment SourceType = "adjustment"
)

// JournalEntry represents a single, balanced double-entry event in an
// association's general ledger. Posted entries are immutable; the only
// further mutation path is a full reversal via a compensating entry.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`       // Primary Key (UUID)
	AssociationID   string          `json:"associationID"` // Owning tenant (Not Null)
	EntryNumber     string          `json:"entryNumber"`   // JE-<year>-<NNNN>, unique per association
	EntryDate       time.Time       `json:"entryDate"`     // Accounting date the entry applies to
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	SourceType      SourceType      `json:"sourceType"`
	TotalAmount     decimal.Decimal `json:"totalAmount"` // Sum of debit amounts across lines
	Status          EntryStatus     `json:"status"`

	PostedAt       *time.Time `json:"postedAt,omitempty"`
	ReversedAt     *time.Time `json:"reversedAt,omitempty"`
	ReversalReason *string    `json:"reversalReason,omitempty"`

	// Reversal linkage: the original points at its compensating entry and
	// the compensating entry points back at the original.
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`
	OriginalEntryID  *string `json:"originalEntryID,omitempty"`

	Lines []JournalEntryLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalEntryLine is a single debit-or-credit line within a journal entry,
// posting against one general-ledger account. Exactly one of DebitAmount and
// CreditAmount is positive for any valid line.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`      // Primary Key (UUID)
	EntryID      string          `json:"entryID"`     // FK -> JournalEntry.EntryID (Not Null)
	LineNumber   int             `json:"lineNumber"`  // 1-based position within the entry
	GLAccountID  string          `json:"glAccountID"` // External GL account reference (Not Null)
	Description  string          `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`

	// Optional sub-ledger attribution.
	PropertyID *string `json:"propertyID,omitempty"`
	VendorID   *string `json:"vendorID,omitempty"`
}

// Reversed returns a copy of the line with the debit and credit sides swapped,
// preserving the account and sub-ledger references.
func (l JournalEntryLine) Reversed() JournalEntryLine {
	swapped := l
	swapped.DebitAmount = l.CreditAmount
	swapped.CreditAmount = l.DebitAmount
	return swapped
}
