package dto

import (
	"net/http"
	"strings"
)

// Generic error codes. Domain errors bring their own codes, which are
// passed through unchanged and mapped to a status by DomainErrorStatus.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeBadRequest             = "BAD_REQUEST"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeConflict               = "CONFLICT"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeInvalidState           = "INVALID_STATE"
	CodeRateLimited            = "RATE_LIMITED"
	CodePayloadTooLarge        = "PAYLOAD_TOO_LARGE"
	CodeInternal               = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps known error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	CodeValidation:    http.StatusBadRequest,
	CodeInvalidInput:  http.StatusBadRequest,
	CodeBadRequest:    http.StatusBadRequest,
	"TENANT_REQUIRED": http.StatusBadRequest,

	CodeUnauthorized:      http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,

	CodeForbidden:         http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"NOT_ROOM_RESIDENT":   http.StatusForbidden,
	"NOT_EVENT_ORGANIZER": http.StatusForbidden,
	"EVENT_PRIVATE":       http.StatusForbidden,

	CodeNotFound:          http.StatusNotFound,
	"REPORT_NOT_ARCHIVED": http.StatusNotFound,

	CodeAlreadyExists:          http.StatusConflict,
	CodeConflict:               http.StatusConflict,
	CodeConcurrentModification: http.StatusConflict,
	"USER_ALREADY_HOUSED":      http.StatusConflict,
	"ALREADY_PARTICIPANT":      http.StatusConflict,

	"INVITATION_REVOKED": http.StatusGone,
	"INVITATION_EXPIRED": http.StatusGone,

	CodeInvalidState: http.StatusUnprocessableEntity,

	CodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	CodeRateLimited:     http.StatusTooManyRequests,

	CodeInternal:          http.StatusInternalServerError,
	"REPORTS_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the status of a known code, or 500 for anything else
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorStatus returns the status for a domain error code. Codes that
// are not listed follow naming conventions, and the remaining ones are
// business rule violations (422).
func DomainErrorStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS"):
		return http.StatusConflict
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	}
	return http.StatusUnprocessableEntity
}
