package handler

import (
	"io"

	appcheckout "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/infrastructure/gateway"
	"github.com/gin-gonic/gin"
)

// WebhookHandler serves gateway webhook deliveries. The raw body is read
// before any parsing because the signature covers the exact bytes sent.
type WebhookHandler struct {
	BaseHandler
	webhooks *appcheckout.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *appcheckout.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/razorpay", h.HandleRazorpay)
}

// HandleRazorpay handles POST /api/v1/webhooks/razorpay
func (h *WebhookHandler) HandleRazorpay(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader(gateway.SignatureHeader)
	result, err := h.webhooks.ProcessWebhook(c.Request.Context(), body, signature)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
