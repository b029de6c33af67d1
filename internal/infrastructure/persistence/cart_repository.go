package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements checkout.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser lists the user's cart lines within a tenant
func (r *GormCartRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]checkout.CartItem, error) {
	var items []checkout.CartItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists a cart line
func (r *GormCartRepository) Save(ctx context.Context, item *checkout.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
