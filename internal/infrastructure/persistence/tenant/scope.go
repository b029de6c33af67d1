// Package tenant provides multi-tenant database scoping for GORM.
//
// It rewrites data access to carry a tenant_id predicate derived from the
// request's resolved tenant context. Predicates are composed structurally
// through GORM's clause builder, so appending the filter is safe regardless
// of how many prior conditions the caller composed; parameter alignment is
// never done by string concatenation.
//
// Usage:
//
//	db := tenant.NewScopedDB(gormDB)
//	db.WithContext(ctx).Find(&products) // WHERE tenant_id = ? auto-added
//
// An elevated (platform-operator) context bypasses scoping. A context with
// neither a bound tenant nor elevation fails closed: the returned DB errors
// on any operation instead of silently running unscoped.
package tenant

import (
	"context"

	domain "github.com/storefront/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope applies tenant filtering to a GORM query
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ScopedDB wraps a GORM DB with automatic tenant scoping
type ScopedDB struct {
	db           *gorm.DB
	tenantColumn string
}

// NewScopedDB creates a ScopedDB using the default "tenant_id" column
func NewScopedDB(db *gorm.DB) *ScopedDB {
	return &ScopedDB{db: db, tenantColumn: "tenant_id"}
}

// DB returns the underlying GORM DB without tenant scoping.
// Use with caution: this bypasses tenant isolation.
func (s *ScopedDB) DB() *gorm.DB {
	return s.db
}

// WithContext returns a GORM DB scoped by the tenant context resolved for
// this request. Elevated contexts get an unscoped DB. Requests that never
// went through tenant resolution, or resolved to no tenant, get a DB that
// fails every operation.
func (s *ScopedDB) WithContext(ctx context.Context) *gorm.DB {
	tc, ok := domain.FromContext(ctx)
	if !ok {
		db := s.db.WithContext(ctx)
		_ = db.AddError(domain.ErrScopeUnresolved)
		return db
	}
	if tc.Elevated {
		return s.db.WithContext(ctx)
	}
	if !tc.Bound() {
		db := s.db.WithContext(ctx)
		_ = db.AddError(domain.ErrScopeUnresolved)
		return db
	}
	return s.db.WithContext(ctx).Scopes(Scope(tc.TenantID))
}

// WithTenant returns a GORM DB scoped to a specific tenant ID, for callers
// holding the ID directly rather than a request context
func (s *ScopedDB) WithTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		db := s.db.WithContext(ctx)
		_ = db.AddError(domain.ErrScopeUnresolved)
		return db
	}
	return s.db.WithContext(ctx).Scopes(Scope(tenantID))
}

// Transaction runs fn inside a database transaction with the context's
// tenant scope applied to the transaction handle. Rollback-or-commit is
// guaranteed on every exit path, including panics.
func (s *ScopedDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tc, ok := domain.FromContext(ctx)
	if !ok || (!tc.Elevated && !tc.Bound()) {
		return domain.ErrScopeUnresolved
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tc.Bound() {
			tx = tx.Scopes(Scope(tc.TenantID))
		}
		return fn(tx)
	})
}
