package tenant

import (
	"strings"

	domain "github.com/storefront/backend/internal/domain/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Callback registers GORM hooks that force a tenant predicate onto query,
// update and delete statements built from a request context. It is a second
// line of defense behind ScopedDB: a repository that forgets to scope still
// cannot cross tenants.
type Callback struct {
	tenantColumn string
}

// NewCallback creates a tenant callback handler for the given column
func NewCallback(tenantColumn string) *Callback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &Callback{tenantColumn: tenantColumn}
}

// Register installs the callbacks on a GORM DB.
// Create is not hooked: tenant_id is set explicitly when entities are built.
func (c *Callback) Register(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", c.addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", c.addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", c.addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", c.addTenantFilter)
}

func (c *Callback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Unscoped {
		return
	}

	// Only guard models that actually carry the tenant column; payments are
	// keyed by gateway references and the tenants table is platform-owned.
	if db.Statement.Schema == nil || db.Statement.Schema.LookUpField(c.tenantColumn) == nil {
		return
	}

	tc, ok := domain.FromContext(db.Statement.Context)
	if !ok {
		// Statement was not built from a resolved request; ScopedDB already
		// rejected those paths, and internal maintenance runs without a
		// request context at all.
		return
	}
	if tc.Elevated {
		return
	}
	if !tc.Bound() {
		_ = db.AddError(domain.ErrScopeUnresolved)
		return
	}
	if c.hasTenantCondition(db) {
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: c.tenantColumn},
				Value:  tc.TenantID,
			},
		},
	})
}

func (c *Callback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if c.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}
	if sql := db.Statement.SQL.String(); sql != "" && strings.Contains(sql, c.tenantColumn) {
		return true
	}
	return false
}

func (c *Callback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == c.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == c.tenantColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if c.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if c.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.Expr:
		if strings.Contains(e.SQL, c.tenantColumn) {
			return true
		}
	}
	return false
}

// EnableAutoTenantFilter installs the default tenant callbacks on db
func EnableAutoTenantFilter(db *gorm.DB) {
	NewCallback("tenant_id").Register(db)
}
