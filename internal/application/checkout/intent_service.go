// Package checkout orchestrates the payment-backed order commit flow: intent
// creation against the gateway, signature-verified commits and webhook
// reconciliation.
package checkout

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCurrency = "INR"

// IntentService mints gateway order references and records the pending
// payment row the later commit and webhook paths key on.
type IntentService struct {
	gateway  checkout.PaymentGateway
	payments checkout.PaymentRepository
	keyID    string
	logger   *zap.Logger
}

// NewIntentService creates a new IntentService. A nil gateway means the
// provider is not configured; intent creation is then refused up front.
func NewIntentService(gw checkout.PaymentGateway, payments checkout.PaymentRepository, keyID string, logger *zap.Logger) *IntentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentService{
		gateway:  gw,
		payments: payments,
		keyID:    keyID,
		logger:   logger,
	}
}

// CreateIntent creates a gateway order and persists the pending payment.
// Nothing is written when the gateway call fails, so a retried request mints
// a fresh reference instead of colliding with a half-created row.
func (s *IntentService) CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResponse, error) {
	if s.gateway == nil {
		return nil, shared.ErrGatewayUnavailable
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	amount := decimal.NewFromFloat(req.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidInput
	}

	order, err := s.gateway.CreateGatewayOrder(ctx, checkout.CreateGatewayOrderRequest{
		AmountMinorUnits: checkout.MinorUnits(amount),
		Currency:         currency,
		Receipt:          req.Receipt,
	})
	if err != nil {
		s.logger.Error("gateway order creation failed", zap.Error(err))
		return nil, err
	}

	payment, err := checkout.NewPayment(order.ID, amount, currency)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment intent created",
		zap.String("gateway_order_id", order.ID),
		zap.Int64("amount_minor_units", order.AmountMinorUnits),
		zap.String("currency", currency))

	return &IntentResponse{
		GatewayOrderID:   order.ID,
		AmountMinorUnits: order.AmountMinorUnits,
		Currency:         order.Currency,
		KeyID:            s.keyID,
	}, nil
}
