// Package tenant models the merchants sharing the storefront platform.
// Each merchant is identified by a subdomain and owns its products, carts,
// orders and payments. Isolation between merchants is enforced by the
// persistence layer using the TenantContext defined here.
package tenant

import (
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Tenant represents a merchant on the platform. Identity is immutable once
// created; only the Active flag is toggled by platform operators.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Subdomain string    `gorm:"size:63;not null;uniqueIndex"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with a normalized subdomain
func NewTenant(name, subdomain string) (*Tenant, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if subdomain == "" {
		return nil, shared.NewDomainError("INVALID_SUBDOMAIN", "Tenant subdomain cannot be empty")
	}
	now := time.Now()
	return &Tenant{
		ID:        uuid.New(),
		Name:      name,
		Subdomain: subdomain,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deactivate marks the tenant as inactive. Requests resolving to an inactive
// tenant are rejected before reaching any data access.
func (t *Tenant) Deactivate() {
	t.Active = false
	t.UpdatedAt = time.Now()
}

// Activate re-enables the tenant
func (t *Tenant) Activate() {
	t.Active = true
	t.UpdatedAt = time.Now()
}
