package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry row.
type EntryStatus string

const (
	Draft    EntryStatus = "draft"
	Posted   EntryStatus = "posted"
	Reversed EntryStatus = "reversed"
)

// JournalEntry mirrors a row of the journal_entries table.
type JournalEntry struct {
	EntryID          string          `json:"entryID"`
	AssociationID    string          `json:"associationID"`
	EntryNumber      string          `json:"entryNumber"` // Unique per (association_id, entry_number)
	EntryDate        time.Time       `json:"entryDate"`
	Description      string          `json:"description"`
	ReferenceNumber  string          `json:"referenceNumber"`
	SourceType       string          `json:"sourceType"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           EntryStatus     `json:"status"`
	PostedAt         *time.Time      `json:"postedAt"`
	ReversedAt       *time.Time      `json:"reversedAt"`
	ReversalReason   *string         `json:"reversalReason"`
	OriginalEntryID  *string         `json:"originalEntryID"`
	ReversingEntryID *string         `json:"reversingEntryID"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// JournalEntryLine mirrors a row of the journal_entry_lines table.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"`
	GLAccountID  string          `json:"glAccountID"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	PropertyID   *string         `json:"propertyID"`
	VendorID     *string         `json:"vendorID"`
}
