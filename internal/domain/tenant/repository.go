package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the tenant registry lookup contract
type Repository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	// FindBySubdomain finds a tenant by its subdomain key
	FindBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	// Save persists a tenant
	Save(ctx context.Context, t *Tenant) error
}
