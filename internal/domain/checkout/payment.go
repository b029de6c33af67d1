// Package checkout models the payment-backed order commit path: payment
// intents minted against the gateway, signature-verified commits, and the
// idempotent reconciliation applied by gateway webhooks.
package checkout

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusCreated, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Payment tracks a gateway order reference through capture. It is created in
// "created" state by the intent service and moves to "paid" by either the
// commit engine or the webhook reconciliation path; both transitions are
// idempotent updates so the two paths may race safely on the same row.
type Payment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GatewayOrderID   string          `gorm:"size:64;not null;uniqueIndex"`
	GatewayPaymentID *string         `gorm:"size:64;index"`
	GatewaySignature *string         `gorm:"size:128"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency         string          `gorm:"size:3;not null"`
	Status           PaymentStatus   `gorm:"size:16;not null"`
	OrderID          *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment keyed by the gateway order reference
func NewPayment(gatewayOrderID string, amount decimal.Decimal, currency string) (*Payment, error) {
	if gatewayOrderID == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_ORDER", "Gateway order ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	now := time.Now()
	return &Payment{
		ID:             uuid.New(),
		GatewayOrderID: gatewayOrderID,
		Amount:         amount,
		Currency:       currency,
		Status:         PaymentStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
