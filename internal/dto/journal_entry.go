package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hoaworks/hoa_ledger_app/internal/core/domain"
)

// CreateEntryLineRequest is one debit-or-credit line of a new journal entry.
// Exactly one of DebitAmount / CreditAmount must be positive; the service
// enforces this so violations come back with the specific rule that failed.
type CreateEntryLineRequest struct {
	GLAccountID  string          `json:"glAccountID" binding:"required"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	PropertyID   *string         `json:"propertyID"`
	VendorID     *string         `json:"vendorID"`
}

// CreateEntryRequest is the payload for creating a draft journal entry.
type CreateEntryRequest struct {
	EntryDate       time.Time                `json:"entryDate" binding:"required"`
	Description     string                   `json:"description" binding:"required"`
	ReferenceNumber string                   `json:"referenceNumber"`
	SourceType      string                   `json:"sourceType"`
	Lines           []CreateEntryLineRequest `json:"lines" binding:"required,dive"`
}

// ReverseEntryRequest carries the audit reason for reversing a posted entry.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListEntriesParams holds query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit        int     `form:"limit"`
	NextToken    *string `form:"nextToken"`
	Status       *string `form:"status"`
	SourceType   *string `form:"sourceType"`
	IncludeLines bool    `form:"includeLines"`
}

// EntryLineResponse defines the data returned for a journal entry line.
type EntryLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNumber   int             `json:"lineNumber"`
	GLAccountID  string          `json:"glAccountID"`
	Description  string          `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	PropertyID   *string         `json:"propertyID,omitempty"`
	VendorID     *string         `json:"vendorID,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string              `json:"entryID"`
	AssociationID    string              `json:"associationID"`
	EntryNumber      string              `json:"entryNumber"`
	EntryDate        time.Time           `json:"entryDate"`
	Description      string              `json:"description"`
	ReferenceNumber  string              `json:"referenceNumber,omitempty"`
	SourceType       string              `json:"sourceType"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	Status           string              `json:"status"`
	PostedAt         *time.Time          `json:"postedAt,omitempty"`
	ReversedAt       *time.Time          `json:"reversedAt,omitempty"`
	ReversalReason   *string             `json:"reversalReason,omitempty"`
	ReversingEntryID *string             `json:"reversingEntryID,omitempty"`
	OriginalEntryID  *string             `json:"originalEntryID,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	Lines            []EntryLineResponse `json:"lines,omitempty"`
}

// ListEntriesResponse is the paginated list result.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain line to its response DTO.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:       l.LineID,
		LineNumber:   l.LineNumber,
		GLAccountID:  l.GLAccountID,
		Description:  l.Description,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		PropertyID:   l.PropertyID,
		VendorID:     l.VendorID,
	}
}

// ToEntryResponse converts a domain entry (and any loaded lines) to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:          e.EntryID,
		AssociationID:    e.AssociationID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		ReferenceNumber:  e.ReferenceNumber,
		SourceType:       string(e.SourceType),
		TotalAmount:      e.TotalAmount,
		Status:           string(e.Status),
		PostedAt:         e.PostedAt,
		ReversedAt:       e.ReversedAt,
		ReversalReason:   e.ReversalReason,
		ReversingEntryID: e.ReversingEntryID,
		OriginalEntryID:  e.OriginalEntryID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}
