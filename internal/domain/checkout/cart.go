package checkout

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrEmptyCart rejects a checkout commit when the user has nothing to buy
var ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "Cart is empty")

// CartItem is an ephemeral cart line. Created and updated by catalog-adjacent
// flows; the commit engine deletes all of a user's lines when an order is
// created, inside the same transaction.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Address is a read-only input to order creation from checkout's perspective
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Line1      string    `gorm:"size:255;not null"`
	Line2      string    `gorm:"size:255"`
	City       string    `gorm:"size:100"`
	State      string    `gorm:"size:100"`
	PostalCode string    `gorm:"size:20"`
	Country    string    `gorm:"size:2"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}
