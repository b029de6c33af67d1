package checkout

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is created exactly once per successful checkout, atomically with its
// items, the stock decrements and the payment linkage. An order exists iff
// its linked payment is paid.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AddressID   uuid.UUID       `gorm:"type:uuid;not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status      OrderStatus     `gorm:"size:16;not null"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one cart line consumed by a checkout
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int64           `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder builds a confirmed order with its items. Validation covers the
// structural invariants; stock sufficiency is decided by the store's
// conditional decrement at commit time, not here.
func NewOrder(tenantID, userID, addressID uuid.UUID, total decimal.Decimal, lines []OrderLine) (*Order, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if addressID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}

	now := time.Now()
	order := &Order{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      userID,
		AddressID:   addressID,
		TotalAmount: total,
		Status:      OrderStatusConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if line.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		order.Items = append(order.Items, OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			CreatedAt: now,
		})
	}
	return order, nil
}

// OrderLine is the caller-supplied input for one order item
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int64
	Price     decimal.Decimal
}
