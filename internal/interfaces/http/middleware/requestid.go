package middleware

import (
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader is the inbound/outbound request id header
const RequestIDHeader = "X-Request-ID"

// RequestIDContextKey is the gin context key carrying the request id
const RequestIDContextKey = "request_id"

// RequestID assigns each request an id, honoring one supplied by the caller,
// and threads it through both the gin context and the request context so log
// lines correlate across layers.
func RequestID(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDContextKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		ctx, _ := logger.WithRequestID(c.Request.Context(), log, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
