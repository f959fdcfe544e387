package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/dto"
	"github.com/SscSPs/ledger_transfer_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts and their owners.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("/:accountNumber", h.getAccount)
		accounts.PUT("/:accountNumber/balance", h.setBalance)
	}
	rg.GET("/owners/:ownerId/accounts", h.listOwnerAccounts)
}

// createAccount godoc
// @Summary Open a new account
// @Description Provisions a zero-balance account with a freshly generated 10-digit account number
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Owner and account type"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Owner not found"
// @Failure 503 {object} errorResponse "No free account number found"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	accountType, err := domain.ParseAccountType(string(req.AccountType))
	if err != nil {
		respondWithError(c, logger, err, "Create account")
		return
	}

	logger = logger.With(slog.String("owner_id", req.OwnerID))
	logger.Info("Received request to create account", slog.String("account_type", string(accountType)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req.OwnerID, accountType)
	if err != nil {
		respondWithError(c, logger, err, "Create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account
// @Description Retrieves the latest committed state of an account
// @Tags accounts
// @Produce  json
// @Param   accountNumber path string true "10-digit account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Malformed account number"
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	account, err := h.accountService.GetAccount(c.Request.Context(), accountNumber)
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_number", accountNumber)), err, "Get account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listOwnerAccounts godoc
// @Summary List an owner's accounts
// @Tags accounts
// @Produce  json
// @Param   ownerId path string true "Owner ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} errorResponse "Owner not found"
// @Security BearerAuth
// @Router /owners/{ownerId}/accounts [get]
func (h *accountHandler) listOwnerAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerId")

	accounts, err := h.accountService.ListOwnerAccounts(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("owner_id", ownerID)), err, "List owner accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// setBalance godoc
// @Summary Overwrite an account balance
// @Description Administrative operation; serialises with in-flight transfers on the same account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "10-digit account number"
// @Param   balance body dto.SetBalanceRequest true "New balance"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid input or negative balance"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 503 {object} errorResponse "Account lock not acquired in time"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/balance [put]
func (h *accountHandler) setBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger = logger.With(slog.String("account_number", accountNumber))
	if callerID, ok := middleware.GetUserIDFromContext(c); ok {
		logger.Info("Balance override requested", slog.String("caller_id", callerID), slog.String("balance", req.Balance.String()))
	}

	account, err := h.accountService.SetBalance(c.Request.Context(), accountNumber, *req.Balance)
	if err != nil {
		respondWithError(c, logger, err, "Set balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
