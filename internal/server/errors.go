package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bankstatementdomain "github.com/cashdeskhq/cashdesk/internal/bankstatement/domain"
	cashclosingdomain "github.com/cashdeskhq/cashdesk/internal/cashclosing/domain"
	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	paymentdomain "github.com/cashdeskhq/cashdesk/internal/payment/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, idemdomain.ErrConflict):
		// A duplicate is in flight right now. Distinct from success and
		// from terminal failure: the caller should back off and retry.
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    "operation_in_progress",
			Message: "an identical operation is currently in progress, retry shortly",
		}
	case errors.Is(err, idemdomain.ErrOperationMismatch),
		errors.Is(err, cashclosingdomain.ErrNotOpen):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflict",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: validationMessage(err.Error()),
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, idemdomain.ErrKeyRequired),
		errors.Is(err, idemdomain.ErrKeyTooLong),
		errors.Is(err, idemdomain.ErrInvalidTenant),
		errors.Is(err, paymentdomain.ErrInvalidTenant),
		errors.Is(err, paymentdomain.ErrInvalidInvoiceRef),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidCurrency),
		errors.Is(err, paymentdomain.ErrInvalidMethod),
		errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, cashclosingdomain.ErrInvalidTenant),
		errors.Is(err, cashclosingdomain.ErrInvalidRegisterRef),
		errors.Is(err, cashclosingdomain.ErrInvalidClosingDate),
		errors.Is(err, cashclosingdomain.ErrInvalidCurrency),
		errors.Is(err, cashclosingdomain.ErrInvalidApprover),
		errors.Is(err, cashclosingdomain.ErrInvalidID),
		errors.Is(err, bankstatementdomain.ErrInvalidTenant),
		errors.Is(err, bankstatementdomain.ErrInvalidAccountRef),
		errors.Is(err, bankstatementdomain.ErrEmptyStatement):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, cashclosingdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationMessage(code string) string {
	switch code {
	case "idempotency_key_required":
		return "this operation requires an Idempotency-Key header"
	case "idempotency_key_too_long":
		return "Idempotency-Key exceeds the maximum length"
	default:
		if strings.HasPrefix(code, "invalid_") {
			return "invalid " + strings.TrimPrefix(code, "invalid_")
		}
		return "invalid value"
	}
}
