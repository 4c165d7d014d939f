package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoaworks/hoa_ledger_app/internal/apperrors"
	portssvc "github.com/hoaworks/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaworks/hoa_ledger_app/internal/dto"
	"github.com/hoaworks/hoa_ledger_app/internal/middleware"
)

// journalEntryHandler handles HTTP requests for the journal entry ledger.
type journalEntryHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

func newJournalEntryHandler(ledgerSvc portssvc.LedgerSvcFacade) *journalEntryHandler {
	return &journalEntryHandler{ledgerSvc: ledgerSvc}
}

// respondWithError maps service errors to HTTP status codes.
func respondWithError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid state transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Internal error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates double-entry invariants and persists a new draft entry with its lines
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param associationID path string true "Association ID"
// @Param entry body dto.CreateEntryRequest true "Journal entry and lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Validation failure"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /associations/{associationID}/journal-entries [post]
func (h *journalEntryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	associationID := c.Param("associationID")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.ledgerSvc.CreateEntry(c.Request.Context(), associationID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry and its lines
// @Tags journal-entries
// @Produce json
// @Param associationID path string true "Association ID"
// @Param entryID path string true "Journal entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Security BearerAuth
// @Router /associations/{associationID}/journal-entries/{entryID} [get]
func (h *journalEntryHandler) getEntry(c *gin.Context) {
	entry, err := h.ledgerSvc.GetEntry(c.Request.Context(), c.Param("associationID"), c.Param("entryID"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries of an association
// @Tags journal-entries
// @Produce json
// @Param associationID path string true "Association ID"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination cursor"
// @Param status query string false "Filter by status (draft|posted|reversed)"
// @Param sourceType query string false "Filter by source type"
// @Param includeLines query bool false "Include entry lines in the response"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /associations/{associationID}/journal-entries [get]
func (h *journalEntryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerSvc.ListEntries(c.Request.Context(), c.Param("associationID"), params)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Finalizes a draft entry; posted entries are immutable
// @Tags journal-entries
// @Produce json
// @Param associationID path string true "Association ID"
// @Param entryID path string true "Journal entry ID"
// @Success 204 "Posted"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not in draft state"
// @Security BearerAuth
// @Router /associations/{associationID}/journal-entries/{entryID}/post [post]
func (h *journalEntryHandler) postEntry(c *gin.Context) {
	if err := h.ledgerSvc.PostEntry(c.Request.Context(), c.Param("associationID"), c.Param("entryID")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates and posts a compensating entry with swapped debit/credit sides, then marks the original reversed
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param associationID path string true "Association ID"
// @Param entryID path string true "Journal entry ID"
// @Param reversal body dto.ReverseEntryRequest true "Reversal reason"
// @Success 201 {object} dto.EntryResponse "The new reversing entry"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not in posted state"
// @Security BearerAuth
// @Router /associations/{associationID}/journal-entries/{entryID}/reverse [post]
func (h *journalEntryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reversal reason is required"})
		return
	}

	reversing, err := h.ledgerSvc.ReverseEntry(c.Request.Context(), c.Param("associationID"), c.Param("entryID"), req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversing))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Description Draft entries only; posted and reversed entries are retained for audit
// @Tags journal-entries
// @Produce json
// @Param associationID path string true "Association ID"
// @Param entryID path string true "Journal entry ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not in draft state"
// @Security BearerAuth
// @Router /associations/{associationID}/journal-entries/{entryID} [delete]
func (h *journalEntryHandler) deleteEntry(c *gin.Context) {
	if err := h.ledgerSvc.DeleteEntry(c.Request.Context(), c.Param("associationID"), c.Param("entryID")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterJournalEntryRoutes registers the ledger routes under an association scope.
func RegisterJournalEntryRoutes(group *gin.RouterGroup, ledgerSvc portssvc.LedgerSvcFacade) {
	h := newJournalEntryHandler(ledgerSvc)

	entries := group.Group("/associations/:associationID/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
}
