package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists           = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrForbidden               = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState            = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrTenantRequired          = NewDomainError("TENANT_REQUIRED", "Tenant context is required for this operation")
	ErrTenantInactive          = NewDomainError("TENANT_INACTIVE", "Tenant account is inactive")
	ErrCrossTenantAccess       = NewDomainError("CROSS_TENANT_ACCESS", "Access denied to this tenant's data")
	ErrInvalidSignature        = NewDomainError("INVALID_SIGNATURE", "Payment signature verification failed")
	ErrGatewayUnavailable      = NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
	ErrPaymentNotFound         = NewDomainError("PAYMENT_NOT_FOUND", "Payment record not found")
	ErrPaymentAlreadyProcessed = NewDomainError("PAYMENT_ALREADY_PROCESSED", "Payment has already been applied to an order")
	ErrPaymentAmountMismatch   = NewDomainError("PAYMENT_AMOUNT_MISMATCH", "Order total does not match the captured payment amount")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)

// InsufficientStockError reports which product could not cover the requested
// quantity. It aborts and rolls back the surrounding checkout transaction.
type InsufficientStockError struct {
	ProductID string
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// NewInsufficientStockError creates an InsufficientStockError for a product
func NewInsufficientStockError(productID string) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID}
}
