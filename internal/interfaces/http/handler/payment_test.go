package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcheckout "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct {
	order *checkout.GatewayOrder
	err   error
}

func (s *stubGateway) CreateGatewayOrder(_ context.Context, _ checkout.CreateGatewayOrderRequest) (*checkout.GatewayOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

type stubPaymentRepo struct{}

func (s *stubPaymentRepo) Save(_ context.Context, _ *checkout.Payment) error { return nil }
func (s *stubPaymentRepo) FindByGatewayOrderID(_ context.Context, _ string) (*checkout.Payment, error) {
	return nil, shared.ErrPaymentNotFound
}
func (s *stubPaymentRepo) MarkPaid(_ context.Context, _, _ string) error { return nil }
func (s *stubPaymentRepo) FindPaidWithoutOrder(_ context.Context, _ time.Time) ([]checkout.Payment, error) {
	return nil, nil
}

type stubCartRepo struct {
	items []checkout.CartItem
}

func (s *stubCartRepo) FindByUser(_ context.Context, _, _ uuid.UUID) ([]checkout.CartItem, error) {
	return s.items, nil
}
func (s *stubCartRepo) Save(_ context.Context, _ *checkout.CartItem) error { return nil }

type stubProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (s *stubProductRepo) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}
func (s *stubProductRepo) Save(_ context.Context, _ *catalog.Product) error { return nil }

type stubStore struct {
	result *checkout.CommitResult
	err    error
}

func (s *stubStore) CommitCheckout(_ context.Context, _ checkout.CommitRequest) (*checkout.CommitResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func withTenant(tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := tenant.Context{TenantID: tenantID}
		c.Request = c.Request.WithContext(tenant.NewContext(c.Request.Context(), tc))
		c.Next()
	}
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_CreateIntent(t *testing.T) {
	newEngine := func(gw checkout.PaymentGateway) *gin.Engine {
		intents := appcheckout.NewIntentService(gw, &stubPaymentRepo{}, "rzp_key", nil)
		h := NewPaymentHandler(intents, nil)
		engine := gin.New()
		h.RegisterRoutes(engine.Group("/api/v1"))
		return engine
	}

	t.Run("returns gateway order reference", func(t *testing.T) {
		gw := &stubGateway{order: &checkout.GatewayOrder{ID: "order_abc", AmountMinorUnits: 49900, Currency: "INR"}}
		w := performJSON(t, newEngine(gw), http.MethodPost, "/api/v1/payments/intent",
			gin.H{"amount": 499})

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				GatewayOrderID string `json:"gateway_order_id"`
				Amount         int64  `json:"amount"`
				KeyID          string `json:"key_id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "order_abc", resp.Data.GatewayOrderID)
		assert.Equal(t, int64(49900), resp.Data.Amount)
		assert.Equal(t, "rzp_key", resp.Data.KeyID)
	})

	t.Run("missing amount is a 400", func(t *testing.T) {
		gw := &stubGateway{order: &checkout.GatewayOrder{ID: "x"}}
		w := performJSON(t, newEngine(gw), http.MethodPost, "/api/v1/payments/intent", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unconfigured gateway is a 503", func(t *testing.T) {
		w := performJSON(t, newEngine(nil), http.MethodPost, "/api/v1/payments/intent",
			gin.H{"amount": 499})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ERR_GATEWAY_UNAVAILABLE", resp.Error.Code)
	})
}

func TestPaymentHandler_VerifyCheckout(t *testing.T) {
	const keySecret = "test_secret"
	tenantID := uuid.New()
	userID := uuid.New()
	addressID := uuid.New()
	orderID := uuid.New()

	product, err := catalog.NewProduct(tenantID, "shirt", decimal.NewFromInt(499), 10)
	require.NoError(t, err)

	newEngine := func(store checkout.Store) *gin.Engine {
		commits := appcheckout.NewCommitService(appcheckout.CommitServiceConfig{
			KeySecret: keySecret,
			Carts: &stubCartRepo{items: []checkout.CartItem{
				{ID: uuid.New(), TenantID: tenantID, UserID: userID, ProductID: product.ID, Quantity: 1},
			}},
			Products: &stubProductRepo{products: map[uuid.UUID]*catalog.Product{product.ID: product}},
			Store:    store,
		})
		h := NewPaymentHandler(nil, commits)
		engine := gin.New()
		engine.Use(withTenant(tenantID))
		h.RegisterRoutes(engine.Group("/api/v1"))
		return engine
	}

	validBody := func() gin.H {
		return gin.H{
			"razorpay_order_id":   "order_abc",
			"razorpay_payment_id": "pay_123",
			"razorpay_signature":  checkout.ComputeSignature(keySecret, "order_abc", "pay_123"),
			"user_id":             userID,
			"address_id":          addressID,
		}
	}

	t.Run("valid proof commits the order", func(t *testing.T) {
		engine := newEngine(&stubStore{result: &checkout.CommitResult{OrderID: orderID}})
		w := performJSON(t, engine, http.MethodPost, "/api/v1/payments/verify", validBody())

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, orderID.String(), resp.Data.OrderID)
		assert.Equal(t, "confirmed", resp.Data.Status)
	})

	t.Run("tampered signature is a 400", func(t *testing.T) {
		engine := newEngine(&stubStore{result: &checkout.CommitResult{OrderID: orderID}})
		body := validBody()
		body["razorpay_signature"] = checkout.ComputeSignature(keySecret, "order_abc", "pay_other")

		w := performJSON(t, engine, http.MethodPost, "/api/v1/payments/verify", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ERR_INVALID_SIGNATURE", resp.Error.Code)
	})

	t.Run("insufficient stock is a 409", func(t *testing.T) {
		engine := newEngine(&stubStore{err: shared.NewInsufficientStockError(product.ID.String())})
		w := performJSON(t, engine, http.MethodPost, "/api/v1/payments/verify", validBody())
		assert.Equal(t, http.StatusConflict, w.Code)

		var resp struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ERR_INSUFFICIENT_STOCK", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, product.ID.String())
	})

	t.Run("unknown payment reference is a 404", func(t *testing.T) {
		engine := newEngine(&stubStore{err: shared.ErrPaymentNotFound})
		w := performJSON(t, engine, http.MethodPost, "/api/v1/payments/verify", validBody())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		engine := newEngine(&stubStore{result: &checkout.CommitResult{OrderID: orderID}})
		w := performJSON(t, engine, http.MethodPost, "/api/v1/payments/verify",
			gin.H{"razorpay_order_id": "order_abc"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy without database dependency", func(t *testing.T) {
		engine := gin.New()
		h := NewHealthHandler(nil)
		engine.GET("/health", h.Health)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("degraded when database is unreachable", func(t *testing.T) {
		engine := gin.New()
		h := NewHealthHandler(pingerFunc(func(context.Context) error { return fmt.Errorf("down") }))
		engine.GET("/health", h.Health)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
