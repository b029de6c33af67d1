// Package catalog holds the product read/stock model consumed by checkout.
// Product CRUD itself lives outside this core; the only mutation performed
// here is the conditional stock decrement applied during order commit.
package catalog

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item owned by a tenant.
// Invariant: Stock never goes negative; the only decrement path is the
// checkout store's conditional update.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Stock     int64           `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for a tenant
func NewProduct(tenantID uuid.UUID, name string, price decimal.Decimal, stock int64) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}
	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Repository defines product lookups needed by the checkout core
type Repository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	// Save persists a product
	Save(ctx context.Context, p *Product) error
}
