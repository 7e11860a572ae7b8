package errors

import (
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Machine-readable error codes surfaced to clients so UIs can branch on
// the failure reason rather than parsing messages.
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeDealNotEligible   = "DEAL_NOT_ELIGIBLE"
	CodeAlreadyRedeemed   = "ALREADY_REDEEMED"
	CodeVoucherExpired    = "VOUCHER_EXPIRED"
	CodeVoucherCancelled  = "VOUCHER_CANCELLED"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInternalError     = "INTERNAL_ERROR"
)

type AppError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidationFailed, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message)
}

// NewConflictError covers illegal state transitions and claim-time business
// rules. The code distinguishes the two for clients.
func NewConflictError(code, message string) *AppError {
	return NewAppError(http.StatusConflict, code, message)
}

func NewGoneError(code, message string) *AppError {
	return NewAppError(http.StatusGone, code, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeRateLimitExceeded, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message)
}
