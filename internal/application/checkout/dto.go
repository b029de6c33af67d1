package checkout

import "github.com/google/uuid"

// CreateIntentRequest asks for a gateway order reference ahead of capture
type CreateIntentRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"omitempty,len=3"`
	Receipt  string  `json:"receipt" binding:"omitempty,max=40"`
}

// IntentResponse carries what the client needs to open the gateway checkout
type IntentResponse struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency"`
	KeyID            string `json:"key_id"`
}

// VerifyCheckoutRequest is the client's proof of capture plus the order inputs
type VerifyCheckoutRequest struct {
	GatewayOrderID   string    `json:"razorpay_order_id" binding:"required"`
	GatewayPaymentID string    `json:"razorpay_payment_id" binding:"required"`
	GatewaySignature string    `json:"razorpay_signature" binding:"required"`
	UserID           uuid.UUID `json:"user_id" binding:"required"`
	AddressID        uuid.UUID `json:"address_id" binding:"required"`
}

// CommitResponse reports the order materialized by a successful commit
type CommitResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// WebhookResult reports how a webhook delivery was handled
type WebhookResult struct {
	EventType string `json:"event_type"`
	PaymentID string `json:"payment_id,omitempty"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// UnlinkedPayment is a reconciliation finding: captured money with no order
type UnlinkedPayment struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	UpdatedAt        string `json:"updated_at"`
}
