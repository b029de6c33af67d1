package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/storefront/backend/internal/domain/checkout"
)

const ordersPath = "/v1/orders"

// RazorpayAdapter implements checkout.PaymentGateway against the Razorpay
// Orders API
type RazorpayAdapter struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

// NewRazorpayAdapter creates a new adapter, validating configuration once
func NewRazorpayAdapter(config *RazorpayConfig) (*RazorpayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RazorpayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// CreateGatewayOrder mints a gateway-side order reference before capture
func (a *RazorpayAdapter) CreateGatewayOrder(ctx context.Context, req checkout.CreateGatewayOrderRequest) (*checkout.GatewayOrder, error) {
	body := createOrderRequest{
		Amount:   req.AmountMinorUnits,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+ordersPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(a.config.KeyID, a.config.KeySecret)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay: order creation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil && apiErr.Error.Code != "" {
			return nil, fmt.Errorf("razorpay: order creation rejected: %s (%s)",
				apiErr.Error.Description, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("razorpay: order creation failed with status %d", resp.StatusCode)
	}

	var order orderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("razorpay: failed to parse response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay: response missing order id")
	}

	return &checkout.GatewayOrder{
		ID:               order.ID,
		AmountMinorUnits: order.Amount,
		Currency:         order.Currency,
	}, nil
}

// ParseWebhookEvent decodes a verified webhook body
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("razorpay: failed to parse webhook payload: %w", err)
	}
	return &event, nil
}
