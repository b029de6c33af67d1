package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentRepository persists payments outside the commit transaction
type PaymentRepository interface {
	// Save persists a new payment record
	Save(ctx context.Context, p *Payment) error
	// FindByGatewayOrderID finds a payment by its gateway order reference
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Payment, error)
	// MarkPaid sets status to paid keyed by the gateway payment id, falling
	// back to the gateway order reference when the payment id was never
	// recorded by the client flow. Idempotent: repeated application
	// converges to the same state and reports no error.
	MarkPaid(ctx context.Context, gatewayPaymentID, gatewayOrderID string) error
	// FindPaidWithoutOrder lists payments the webhook marked paid but no
	// commit ever linked to an order. Input to the reconciliation sweep.
	FindPaidWithoutOrder(ctx context.Context, olderThan time.Time) ([]Payment, error)
}

// CartRepository reads a user's cart for server-side cross-checks
type CartRepository interface {
	// FindByUser lists the user's cart lines within a tenant
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]CartItem, error)
	// Save persists a cart line
	Save(ctx context.Context, item *CartItem) error
}

// CommitRequest is the unit of work applied atomically by the store
type CommitRequest struct {
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	Order            *Order
}

// CommitResult reports the materialized order
type CommitResult struct {
	OrderID uuid.UUID
}

// Store applies the checkout commit as one atomic transaction: payment to
// paid, order and items inserted, conditional stock decrements, cart cleared,
// payment linked to the order. Any failure rolls the whole unit back; the
// connection is released on every exit path.
type Store interface {
	CommitCheckout(ctx context.Context, req CommitRequest) (*CommitResult, error)
}
