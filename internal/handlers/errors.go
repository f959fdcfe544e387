package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, apperrors.ErrValidation):
		return "INVALID_INPUT"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, apperrors.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, apperrors.ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, apperrors.ErrDeadlock):
		return "DEADLOCK"
	case errors.Is(err, apperrors.ErrProvisioningExhausted):
		return "PROVISIONING_EXHAUSTED"
	default:
		return "INTERNAL"
	}
}

// respondWithError maps a service error onto its HTTP status. Client errors echo the
// error text; server errors are logged and replaced with a generic message.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := apperrors.HTTPStatus(err)
	body := errorResponse{Error: err.Error(), Code: errorCode(err)}

	switch {
	case status == http.StatusServiceUnavailable:
		logger.Warn(action+" temporarily unavailable", slog.String("error", err.Error()))
		c.Header("Retry-After", "1")
		body.Error = "Service temporarily unavailable, please retry"
	case status >= http.StatusInternalServerError:
		logger.Error(action+" failed", slog.String("error", err.Error()))
		body.Error = "Internal server error"
	default:
		logger.Warn(action+" rejected", slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request format: " + err.Error(), Code: "INVALID_INPUT"})
}
