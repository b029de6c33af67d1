package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCheckoutStore implements checkout.Store. The commit runs as a single
// database transaction: payment capture, order plus items insert, conditional
// stock decrements, cart clear and payment linkage either all land or none
// do. Stock sufficiency is decided by the UPDATE's own WHERE predicate, so
// concurrent commits against the same product serialize on the row lock and
// the loser observes zero affected rows instead of driving stock negative.
type GormCheckoutStore struct {
	db *gorm.DB
}

// NewGormCheckoutStore creates a new GormCheckoutStore
func NewGormCheckoutStore(db *gorm.DB) *GormCheckoutStore {
	return &GormCheckoutStore{db: db}
}

// CommitCheckout implements checkout.Store
func (s *GormCheckoutStore) CommitCheckout(ctx context.Context, req checkout.CommitRequest) (*checkout.CommitResult, error) {
	order := req.Order
	now := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Inspect the payment before any stock is touched. A payment that is
		// already linked to an order must not commit again: the signature is
		// stable for a given order/payment pair, so a replayed verify request
		// would otherwise mint a second order off the same capture. A total
		// that drifted from the amount minted at intent time means the cart
		// changed after payment and the commit is rejected.
		var payment checkout.Payment
		if err := tx.Where("gateway_order_id = ?", req.GatewayOrderID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrPaymentNotFound
			}
			return err
		}
		if payment.OrderID != nil {
			return shared.ErrPaymentAlreadyProcessed
		}
		if !payment.Amount.Equal(order.TotalAmount) {
			return shared.ErrPaymentAmountMismatch
		}

		// Capture the payment. The order_id predicate re-checks linkage under
		// the row lock so concurrent commits of the same payment elect one
		// winner. The webhook path never sets order_id, so a payment the
		// webhook already marked paid still captures here.
		res := tx.Model(&checkout.Payment{}).
			Where("gateway_order_id = ? AND order_id IS NULL", req.GatewayOrderID).
			Updates(map[string]any{
				"status":             checkout.PaymentStatusPaid,
				"gateway_payment_id": req.GatewayPaymentID,
				"gateway_signature":  req.GatewaySignature,
				"updated_at":         now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrPaymentAlreadyProcessed
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			res := tx.Model(&catalog.Product{}).
				Where("id = ? AND tenant_id = ? AND stock >= ?", item.ProductID, order.TenantID, item.Quantity).
				Updates(map[string]any{
					"stock":      gorm.Expr("stock - ?", item.Quantity),
					"updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return shared.NewInsufficientStockError(item.ProductID.String())
			}
		}

		if err := tx.
			Where("tenant_id = ? AND user_id = ?", order.TenantID, order.UserID).
			Delete(&checkout.CartItem{}).Error; err != nil {
			return err
		}

		return tx.Model(&checkout.Payment{}).
			Where("gateway_order_id = ?", req.GatewayOrderID).
			Updates(map[string]any{"order_id": order.ID, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return &checkout.CommitResult{OrderID: order.ID}, nil
}
