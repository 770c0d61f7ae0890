package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/multibook/backend/internal/domain/error"
	"github.com/multibook/backend/internal/integration/entrypoint/dto"
)

// respondError writes the HTTP response for an error returned by a use case.
func respondError(ctx *gin.Context, err error) {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		status := statusForLedgerError(ledgerErr.Kind)
		if status >= http.StatusInternalServerError {
			slog.Error("Ledger request failed", "path", ctx.FullPath(), "code", ledgerErr.Code, "error", err)
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		ctx.JSON(statusForAuthError(authErr.Code), dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
		return
	}

	slog.Error("Unhandled request error", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

func respondInvalidRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request body",
		Code:    string(domainerror.ErrCodeInvalidLedgerRequest),
		Details: err.Error(),
	})
}

func statusForLedgerError(kind domainerror.LedgerErrorKind) int {
	switch kind {
	case domainerror.LedgerErrorKindValidation:
		return http.StatusBadRequest
	case domainerror.LedgerErrorKindReference:
		return http.StatusUnprocessableEntity
	case domainerror.LedgerErrorKindNotFound:
		return http.StatusNotFound
	case domainerror.LedgerErrorKindRemotePersistence:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func statusForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodePasswordMismatch,
		domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidConfirmationToken:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeUserNotFound,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken,
		domainerror.ErrCodeOAuthExchangeFailed:
		return http.StatusUnauthorized
	case domainerror.ErrCodeEmailNotConfirmed:
		return http.StatusForbidden
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case domainerror.ErrCodeOAuthNotConfigured:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
