package checkout

import (
	"context"
	"testing"

	domain "github.com/storefront/backend/internal/domain/checkout"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentService_CreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates gateway order and pending payment", func(t *testing.T) {
		gw := &fakeGateway{order: &domain.GatewayOrder{ID: "order_abc", AmountMinorUnits: 49900, Currency: "INR"}}
		repo := &fakePaymentRepo{}
		svc := NewIntentService(gw, repo, "rzp_test_key", nil)

		resp, err := svc.CreateIntent(ctx, CreateIntentRequest{Amount: 499})
		require.NoError(t, err)

		assert.Equal(t, "order_abc", resp.GatewayOrderID)
		assert.Equal(t, int64(49900), resp.AmountMinorUnits)
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, "rzp_test_key", resp.KeyID)

		require.NotNil(t, gw.got)
		assert.Equal(t, int64(49900), gw.got.AmountMinorUnits)
		assert.Equal(t, "INR", gw.got.Currency)

		require.Len(t, repo.saved, 1)
		assert.Equal(t, "order_abc", repo.saved[0].GatewayOrderID)
		assert.Equal(t, domain.PaymentStatusCreated, repo.saved[0].Status)
	})

	t.Run("currency defaults to INR and is upper-cased otherwise", func(t *testing.T) {
		gw := &fakeGateway{order: &domain.GatewayOrder{ID: "order_usd", AmountMinorUnits: 100, Currency: "USD"}}
		svc := NewIntentService(gw, &fakePaymentRepo{}, "key", nil)

		_, err := svc.CreateIntent(ctx, CreateIntentRequest{Amount: 1, Currency: "usd"})
		require.NoError(t, err)
		assert.Equal(t, "USD", gw.got.Currency)
	})

	t.Run("unconfigured gateway is refused up front", func(t *testing.T) {
		repo := &fakePaymentRepo{}
		svc := NewIntentService(nil, repo, "", nil)

		_, err := svc.CreateIntent(ctx, CreateIntentRequest{Amount: 499})
		assert.ErrorIs(t, err, shared.ErrGatewayUnavailable)
		assert.Empty(t, repo.saved)
	})

	t.Run("gateway failure writes no payment row", func(t *testing.T) {
		gw := &fakeGateway{err: assert.AnError}
		repo := &fakePaymentRepo{}
		svc := NewIntentService(gw, repo, "key", nil)

		_, err := svc.CreateIntent(ctx, CreateIntentRequest{Amount: 499})
		require.Error(t, err)
		assert.Empty(t, repo.saved)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		gw := &fakeGateway{order: &domain.GatewayOrder{ID: "x"}}
		svc := NewIntentService(gw, &fakePaymentRepo{}, "key", nil)

		_, err := svc.CreateIntent(ctx, CreateIntentRequest{Amount: 0})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Nil(t, gw.got)
	})
}
