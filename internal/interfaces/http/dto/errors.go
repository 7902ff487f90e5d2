package dto

import (
	"net/http"
	"strings"
)

// Error codes raised by the HTTP layer itself
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus pins domain error codes to HTTP statuses where the
// suffix rules below would guess wrong
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"THEATER_INACTIVE":    http.StatusForbidden,

	// conflicts
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SYSTEM_ROLE":          http.StatusConflict,
	"CATEGORY_NOT_EMPTY":   http.StatusConflict,
	"MONTH_NOT_EMPTY":      http.StatusConflict,
	"TABLE_HAS_OPEN_ORDERS": http.StatusConflict,

	// customer ordering
	"INVALID_QR_TOKEN":     http.StatusNotFound,
	"TABLE_INACTIVE":       http.StatusUnprocessableEntity,
	"PRODUCT_NOT_SELLABLE": http.StatusUnprocessableEntity,

	// stock ledger
	"DATE_OUT_OF_MONTH": http.StatusUnprocessableEntity,
	"EMPTY_ENTRY":       http.StatusUnprocessableEntity,
}

// HTTPStatus maps a domain error code to an HTTP status. Unknown codes fall
// back on naming conventions: *_NOT_FOUND is 404, *_EXISTS is 409, INVALID_*
// is 400, and everything else is treated as a business rule violation.
func HTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
