package handler

import (
	appcheckout "github.com/storefront/backend/internal/application/checkout"
	"github.com/gin-gonic/gin"
)

// PaymentHandler serves payment intent creation and checkout verification
type PaymentHandler struct {
	BaseHandler
	intents *appcheckout.IntentService
	commits *appcheckout.CommitService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(intents *appcheckout.IntentService, commits *appcheckout.CommitService) *PaymentHandler {
	return &PaymentHandler{
		intents: intents,
		commits: commits,
	}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/intent", h.CreateIntent)
		payments.POST("/verify", h.VerifyCheckout)
	}
}

// CreateIntent handles POST /api/v1/payments/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req appcheckout.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.intents.CreateIntent(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// VerifyCheckout handles POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyCheckout(c *gin.Context) {
	var req appcheckout.VerifyCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.commits.VerifyAndCommit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
