package tenant

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrScopeUnresolved is returned by the isolation filter when a data access
// carries neither a bound tenant nor an elevated context. Scoping fails
// closed rather than running unscoped.
var ErrScopeUnresolved = shared.NewDomainError("TENANT_SCOPE_UNRESOLVED", "No tenant context resolved for this data access")

// Context is the resolved tenant identity for one request. It is constructed
// exactly once by the tenant resolution middleware and travels through the
// request's context.Context; handlers and repositories never re-parse the host.
//
// Elevated marks platform-operator requests that carry no tenant binding and
// may bypass tenant scoping.
type Context struct {
	TenantID uuid.UUID
	Elevated bool
}

// RequireTenant returns the bound tenant ID, failing closed when the context
// is neither bound to a tenant nor elevated.
func (c Context) RequireTenant() (uuid.UUID, error) {
	if c.TenantID == uuid.Nil {
		if c.Elevated {
			return uuid.Nil, shared.ErrCrossTenantAccess
		}
		return uuid.Nil, shared.ErrTenantRequired
	}
	return c.TenantID, nil
}

// Bound reports whether the context carries a tenant binding
func (c Context) Bound() bool {
	return c.TenantID != uuid.Nil
}

type contextKey struct{}

// NewContext returns a request context carrying the tenant context value
func NewContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext extracts the tenant context from a request context. The second
// return value is false when no tenant resolution ran for this request.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(contextKey{}).(Context)
	return tc, ok
}
