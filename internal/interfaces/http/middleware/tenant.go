// Package middleware contains the gin middleware chain: request identity,
// body limits and tenant resolution.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TenantMiddlewareConfig holds configuration for tenant resolution
type TenantMiddlewareConfig struct {
	// Resolver maps the request host to a tenant context
	Resolver *tenant.Resolver
	// SkipPaths bypass resolution entirely, e.g. health probes and webhook
	// endpoints whose authenticity comes from their own signature.
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// TenantMiddleware resolves the request's tenant identity from the Host
// header exactly once per request and stashes the immutable result in the
// request context. Handlers and repositories never re-parse the host.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		tc, err := cfg.Resolver.Resolve(c.Request.Context(), c.Request.Host)
		if err != nil {
			code, status := tenantErrorCode(err)
			logger.Warn("tenant resolution failed",
				zap.String("host", c.Request.Host),
				zap.String("path", path),
				zap.Error(err))
			c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, err.Error()))
			return
		}

		c.Request = c.Request.WithContext(tenant.NewContext(c.Request.Context(), tc))
		c.Next()
	}
}

func tenantErrorCode(err error) (string, int) {
	switch {
	case errors.Is(err, tenant.ErrMalformedHost):
		return dto.ErrCodeMalformedHost, http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return dto.ErrCodeTenantNotFound, http.StatusNotFound
	case errors.Is(err, shared.ErrTenantInactive):
		return dto.ErrCodeTenantInactive, http.StatusForbidden
	default:
		return dto.ErrCodeInternal, http.StatusInternalServerError
	}
}
