package checkout

import (
	"context"

	"github.com/shopspring/decimal"
)

// CreateGatewayOrderRequest asks the payment gateway to mint an order
// reference before capture. AmountMinorUnits is the amount in the currency's
// smallest unit (paise for INR).
type CreateGatewayOrderRequest struct {
	AmountMinorUnits int64
	Currency         string
	Receipt          string
}

// GatewayOrder is the gateway-side order reference returned to the client
type GatewayOrder struct {
	ID               string
	AmountMinorUnits int64
	Currency         string
}

// PaymentGateway is the outbound contract to the payment provider. Adapters
// live in infrastructure; absence of configuration is decided once at
// composition time, not per request.
type PaymentGateway interface {
	CreateGatewayOrder(ctx context.Context, req CreateGatewayOrderRequest) (*GatewayOrder, error)
}

// MinorUnits converts a decimal major-unit amount to gateway minor units
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}
