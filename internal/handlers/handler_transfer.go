package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/dto"
	"github.com/SscSPs/ledger_transfer_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transferHandler struct {
	transferService portssvc.TransferSvc
}

// RegisterTransferRoutes registers the transfer endpoint. Extra handlers, such as a
// rate limiter, run before it.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvc, extra ...gin.HandlerFunc) {
	h := &transferHandler{transferService: transferService}
	rg.POST("/transfers", append(extra, h.transfer)...)
}

// transfer godoc
// @Summary Transfer funds between two accounts
// @Description Debits the source and credits the target as one atomic unit and records a COMPLETED ledger entry
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 422 {object} errorResponse "Insufficient funds"
// @Failure 429 {object} errorResponse "Rate limit exceeded"
// @Failure 503 {object} errorResponse "Lock timeout or deadlock after retries"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger = logger.With(
		slog.String("source_account", req.SourceAccountNumber),
		slog.String("target_account", req.TargetAccountNumber),
	)

	entry, err := h.transferService.Transfer(c.Request.Context(), req.SourceAccountNumber, req.TargetAccountNumber, *req.Amount, req.Description)
	if err != nil {
		respondWithError(c, logger, err, "Transfer")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}
