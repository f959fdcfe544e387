package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/dto"
	"github.com/SscSPs/ledger_transfer_engine/internal/middleware"
	"github.com/SscSPs/ledger_transfer_engine/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves the read side of the ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerQuerySvc
}

// RegisterLedgerRoutes registers ledger query routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerQuerySvc) {
	h := &ledgerHandler{ledgerService: ledgerService}

	rg.GET("/transactions", h.listByDateRange)
	rg.GET("/transactions/:id", h.getEntry)
	rg.GET("/accounts/:accountNumber/transactions", h.listAccountEntries)
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags ledger
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 404 {object} errorResponse "Entry not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("transaction_id", entryID)), err, "Get ledger entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// listAccountEntries godoc
// @Summary List an account's ledger entries
// @Description Entries where the account is source or target, oldest first. Without page parameters the full history is returned.
// @Tags ledger
// @Produce  json
// @Param   accountNumber path string true "10-digit account number"
// @Param   page query int false "Zero-based page index"
// @Param   pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} errorResponse "Invalid paging parameters"
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/transactions [get]
func (h *ledgerHandler) listAccountEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")
	logger = logger.With(slog.String("account_number", accountNumber))

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	var page *pagination.PageRequest
	if params.Paged() {
		req, err := pagination.NewPageRequest(derefOr(params.Page, 0), derefOr(params.PageSize, 0))
		if err != nil {
			respondWithError(c, logger, err, "List account entries")
			return
		}
		page = &req
	}

	result, err := h.ledgerService.ListAccountEntries(c.Request.Context(), accountNumber, page)
	if err != nil {
		respondWithError(c, logger, err, "List account entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntriesResponse(result))
}

// listByDateRange godoc
// @Summary List ledger entries in a date range
// @Tags ledger
// @Produce  json
// @Param   startDate query string true "Inclusive lower bound (RFC3339)"
// @Param   endDate query string true "Inclusive upper bound (RFC3339)"
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 400 {object} errorResponse "Missing or inverted range"
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listByDateRange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	entries, err := h.ledgerService.ListEntriesByDateRange(c.Request.Context(), params.StartDate, params.EndDate)
	if err != nil {
		respondWithError(c, logger, err, "List entries by date range")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}

func derefOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
