package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/checkout"
)

func TestRazorpayConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *RazorpayConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "secret"},
			wantErr: nil,
		},
		{
			name:    "missing key ID",
			config:  &RazorpayConfig{KeySecret: "secret"},
			wantErr: ErrMissingKeyID,
		},
		{
			name:    "missing key secret",
			config:  &RazorpayConfig{KeyID: "rzp_test_key"},
			wantErr: ErrMissingKeySecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, defaultBaseURL, tt.config.BaseURL)
			assert.Equal(t, 30*time.Second, tt.config.Timeout)
		})
	}
}

func TestRazorpayAdapter_CreateGatewayOrder(t *testing.T) {
	t.Run("creates order with basic auth and minor units", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, ordersPath, r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)
			assert.Equal(t, "secret", pass)

			var req createOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(50000), req.Amount)
			assert.Equal(t, "INR", req.Currency)

			_ = json.NewEncoder(w).Encode(orderResponse{
				ID:       "order_test123",
				Entity:   "order",
				Amount:   req.Amount,
				Currency: req.Currency,
				Status:   "created",
			})
		}))
		defer server.Close()

		adapter, err := NewRazorpayAdapter(&RazorpayConfig{
			KeyID:     "rzp_test_key",
			KeySecret: "secret",
			BaseURL:   server.URL,
		})
		require.NoError(t, err)

		order, err := adapter.CreateGatewayOrder(context.Background(), checkout.CreateGatewayOrderRequest{
			AmountMinorUnits: 50000,
			Currency:         "INR",
			Receipt:          "rcpt_1",
		})
		require.NoError(t, err)
		assert.Equal(t, "order_test123", order.ID)
		assert.Equal(t, int64(50000), order.AmountMinorUnits)
		assert.Equal(t, "INR", order.Currency)
	})

	t.Run("surfaces gateway error description", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
		}))
		defer server.Close()

		adapter, err := NewRazorpayAdapter(&RazorpayConfig{
			KeyID:     "rzp_test_key",
			KeySecret: "secret",
			BaseURL:   server.URL,
		})
		require.NoError(t, err)

		_, err = adapter.CreateGatewayOrder(context.Background(), checkout.CreateGatewayOrderRequest{
			AmountMinorUnits: 1,
			Currency:         "INR",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "amount too small")
	})

	t.Run("rejects response without order id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"entity":"order"}`))
		}))
		defer server.Close()

		adapter, err := NewRazorpayAdapter(&RazorpayConfig{
			KeyID:     "rzp_test_key",
			KeySecret: "secret",
			BaseURL:   server.URL,
		})
		require.NoError(t, err)

		_, err = adapter.CreateGatewayOrder(context.Background(), checkout.CreateGatewayOrderRequest{
			AmountMinorUnits: 100,
			Currency:         "INR",
		})
		assert.Error(t, err)
	})
}

func TestParseWebhookEvent(t *testing.T) {
	t.Run("parses payment captured event", func(t *testing.T) {
		body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","amount":50000,"status":"captured"}}}}`)
		event, err := ParseWebhookEvent(body)
		require.NoError(t, err)
		assert.Equal(t, EventPaymentCaptured, event.Event)
		assert.Equal(t, "pay_1", event.Payload.Payment.Entity.ID)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParseWebhookEvent([]byte(`{`))
		assert.Error(t, err)
	})
}
