package dto

import (
	"errors"
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"

	ErrCodeTenantRequired  = "ERR_TENANT_REQUIRED"
	ErrCodeTenantInactive  = "ERR_TENANT_INACTIVE"
	ErrCodeTenantNotFound  = "ERR_TENANT_NOT_FOUND"
	ErrCodeMalformedHost   = "ERR_MALFORMED_HOST"
	ErrCodeCrossTenant     = "ERR_CROSS_TENANT_ACCESS"
	ErrCodeScopeUnresolved = "ERR_TENANT_SCOPE_UNRESOLVED"

	ErrCodeInvalidSignature   = "ERR_INVALID_SIGNATURE"
	ErrCodeGatewayUnavailable = "ERR_GATEWAY_UNAVAILABLE"
	ErrCodePaymentNotFound    = "ERR_PAYMENT_NOT_FOUND"
	ErrCodeInsufficientStock  = "ERR_INSUFFICIENT_STOCK"
	ErrCodeEmptyCart          = "ERR_EMPTY_CART"
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeRequestTooLarge    = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeTenantRequired:  http.StatusBadRequest,
	ErrCodeTenantInactive:  http.StatusForbidden,
	ErrCodeTenantNotFound:  http.StatusNotFound,
	ErrCodeMalformedHost:   http.StatusBadRequest,
	ErrCodeCrossTenant:     http.StatusForbidden,
	ErrCodeScopeUnresolved: http.StatusForbidden,

	ErrCodeInvalidSignature:   http.StatusBadRequest,
	ErrCodeGatewayUnavailable: http.StatusServiceUnavailable,
	ErrCodePaymentNotFound:    http.StatusNotFound,
	ErrCodeInsufficientStock:  http.StatusConflict,
	ErrCodeEmptyCart:          http.StatusUnprocessableEntity,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeRequestTooLarge:    http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping translates domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeBadRequest,
	"INVALID_STATE":             ErrCodeInvalidState,
	"FORBIDDEN":                 ErrCodeForbidden,
	"TENANT_REQUIRED":           ErrCodeTenantRequired,
	"TENANT_INACTIVE":           ErrCodeTenantInactive,
	"CROSS_TENANT_ACCESS":       ErrCodeCrossTenant,
	"TENANT_SCOPE_UNRESOLVED":   ErrCodeScopeUnresolved,
	"MALFORMED_HOST":            ErrCodeMalformedHost,
	"INVALID_SIGNATURE":         ErrCodeInvalidSignature,
	"GATEWAY_UNAVAILABLE":       ErrCodeGatewayUnavailable,
	"PAYMENT_NOT_FOUND":         ErrCodePaymentNotFound,
	"PAYMENT_ALREADY_PROCESSED": ErrCodeConflict,
	"PAYMENT_AMOUNT_MISMATCH":   ErrCodeConflict,
	"EMPTY_CART":                ErrCodeEmptyCart,
	"CONCURRENCY_CONFLICT":      ErrCodeConflict,
}

// MapDomainError translates an application error to an API error code and
// message. Unknown errors map to ERR_INTERNAL without leaking detail.
func MapDomainError(err error) (code, message string) {
	var stockErr *shared.InsufficientStockError
	if errors.As(err, &stockErr) {
		return ErrCodeInsufficientStock, stockErr.Error()
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if mapped, ok := domainCodeMapping[domainErr.Code]; ok {
			return mapped, domainErr.Message
		}
		return ErrCodeValidation, domainErr.Message
	}

	return ErrCodeInternal, "Internal server error"
}
