package gateway

// createOrderRequest is the Orders API request body
type createOrderRequest struct {
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// orderResponse is the Orders API response body
type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// errorResponse is the Razorpay error envelope
type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// WebhookEvent is the parsed webhook payload. Only payment.captured is
// consumed; other event types are acknowledged and ignored.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// EventPaymentCaptured is the webhook event type applied by reconciliation
const EventPaymentCaptured = "payment.captured"

// SignatureHeader is the webhook signature header set by the gateway
const SignatureHeader = "X-Razorpay-Signature"
