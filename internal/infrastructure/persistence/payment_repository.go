package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements checkout.PaymentRepository using GORM.
// Payments are keyed by gateway references rather than tenant_id; both the
// commit engine and the webhook path update the same rows with idempotent
// writes, never read-modify-write.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save persists a new payment record
func (r *GormPaymentRepository) Save(ctx context.Context, p *checkout.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByGatewayOrderID finds a payment by its gateway order reference
func (r *GormPaymentRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*checkout.Payment, error) {
	var p checkout.Payment
	if err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// MarkPaid applies the webhook's capture confirmation as a
// single idempotent update. When the client verification flow already
// recorded the gateway payment id, the row is matched on it directly;
// otherwise the row is matched on the gateway order reference carried by the
// event and the payment id is stamped at the same time. Repeated delivery of
// the same event converges to the same row state with no error.
func (r *GormPaymentRepository) MarkPaid(ctx context.Context, gatewayPaymentID, gatewayOrderID string) error {
	now := time.Now()

	res := r.db.WithContext(ctx).Model(&checkout.Payment{}).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		Updates(map[string]any{"status": checkout.PaymentStatusPaid, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if gatewayOrderID == "" {
		return shared.ErrPaymentNotFound
	}

	res = r.db.WithContext(ctx).Model(&checkout.Payment{}).
		Where("gateway_order_id = ?", gatewayOrderID).
		Updates(map[string]any{
			"status":             checkout.PaymentStatusPaid,
			"gateway_payment_id": gatewayPaymentID,
			"updated_at":         now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrPaymentNotFound
	}
	return nil
}

// FindPaidWithoutOrder lists payments captured by the gateway that no commit
// ever linked to an order. Input to the reconciliation sweep.
func (r *GormPaymentRepository) FindPaidWithoutOrder(ctx context.Context, olderThan time.Time) ([]checkout.Payment, error) {
	var payments []checkout.Payment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND order_id IS NULL AND updated_at < ?", checkout.PaymentStatusPaid, olderThan).
		Order("updated_at asc").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
