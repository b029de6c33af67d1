package persistence

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&checkout.CartItem{},
		&checkout.Payment{},
		&checkout.Order{},
		&checkout.OrderItem{},
	))
	return db
}

func seedCheckoutProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, price decimal.Decimal, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, name, price, stock)
	require.NoError(t, err)
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedPendingPayment(t *testing.T, db *gorm.DB, gatewayOrderID string, amount decimal.Decimal) *checkout.Payment {
	t.Helper()
	p, err := checkout.NewPayment(gatewayOrderID, amount, "INR")
	require.NoError(t, err)
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCartItem(t *testing.T, db *gorm.DB, tenantID, userID, productID uuid.UUID, qty int64) {
	t.Helper()
	require.NoError(t, db.Create(&checkout.CartItem{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}).Error)
}

func TestGormCheckoutStore_CommitCheckout(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	addressID := uuid.New()

	t.Run("commits order, decrements stock, clears cart, captures payment", func(t *testing.T) {
		db := setupCheckoutTestDB(t)
		store := NewGormCheckoutStore(db)

		shirt := seedCheckoutProduct(t, db, tenantID, "shirt", decimal.NewFromInt(499), 10)
		mug := seedCheckoutProduct(t, db, tenantID, "mug", decimal.NewFromInt(199), 3)
		seedPendingPayment(t, db, "order_abc", decimal.NewFromInt(1197))
		seedCartItem(t, db, tenantID, userID, shirt.ID, 2)
		seedCartItem(t, db, tenantID, userID, mug.ID, 1)

		order, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(1197), []checkout.OrderLine{
			{ProductID: shirt.ID, Quantity: 2, Price: shirt.Price},
			{ProductID: mug.ID, Quantity: 1, Price: mug.Price},
		})
		require.NoError(t, err)

		result, err := store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_123",
			GatewaySignature: "sig_deadbeef",
			Order:            order,
		})
		require.NoError(t, err)
		assert.Equal(t, order.ID, result.OrderID)

		var persisted checkout.Order
		require.NoError(t, db.Preload("Items").First(&persisted, "id = ?", order.ID).Error)
		assert.Equal(t, checkout.OrderStatusConfirmed, persisted.Status)
		assert.Len(t, persisted.Items, 2)

		var got catalog.Product
		require.NoError(t, db.First(&got, "id = ?", shirt.ID).Error)
		assert.Equal(t, int64(8), got.Stock)
		got = catalog.Product{}
		require.NoError(t, db.First(&got, "id = ?", mug.ID).Error)
		assert.Equal(t, int64(2), got.Stock)

		var cartCount int64
		require.NoError(t, db.Model(&checkout.CartItem{}).
			Where("tenant_id = ? AND user_id = ?", tenantID, userID).
			Count(&cartCount).Error)
		assert.Equal(t, int64(0), cartCount)

		var payment checkout.Payment
		require.NoError(t, db.First(&payment, "gateway_order_id = ?", "order_abc").Error)
		assert.Equal(t, checkout.PaymentStatusPaid, payment.Status)
		require.NotNil(t, payment.GatewayPaymentID)
		assert.Equal(t, "pay_123", *payment.GatewayPaymentID)
		require.NotNil(t, payment.OrderID)
		assert.Equal(t, order.ID, *payment.OrderID)
	})

	t.Run("insufficient stock on a later item rolls everything back", func(t *testing.T) {
		db := setupCheckoutTestDB(t)
		store := NewGormCheckoutStore(db)

		a := seedCheckoutProduct(t, db, tenantID, "a", decimal.NewFromInt(100), 10)
		b := seedCheckoutProduct(t, db, tenantID, "b", decimal.NewFromInt(100), 10)
		c := seedCheckoutProduct(t, db, tenantID, "c", decimal.NewFromInt(100), 1)
		seedPendingPayment(t, db, "order_roll", decimal.NewFromInt(500))
		seedCartItem(t, db, tenantID, userID, a.ID, 1)

		order, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(500), []checkout.OrderLine{
			{ProductID: a.ID, Quantity: 1, Price: a.Price},
			{ProductID: b.ID, Quantity: 2, Price: b.Price},
			{ProductID: c.ID, Quantity: 2, Price: c.Price},
		})
		require.NoError(t, err)

		_, err = store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_roll",
			GatewayPaymentID: "pay_roll",
			GatewaySignature: "sig",
			Order:            order,
		})
		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, c.ID.String(), stockErr.ProductID)

		var orderCount, itemCount int64
		require.NoError(t, db.Model(&checkout.Order{}).Count(&orderCount).Error)
		require.NoError(t, db.Model(&checkout.OrderItem{}).Count(&itemCount).Error)
		assert.Equal(t, int64(0), orderCount)
		assert.Equal(t, int64(0), itemCount)

		for _, p := range []*catalog.Product{a, b, c} {
			var got catalog.Product
			require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
			assert.Equal(t, p.Stock, got.Stock)
		}

		var cartCount int64
		require.NoError(t, db.Model(&checkout.CartItem{}).Count(&cartCount).Error)
		assert.Equal(t, int64(1), cartCount)

		var payment checkout.Payment
		require.NoError(t, db.First(&payment, "gateway_order_id = ?", "order_roll").Error)
		assert.Equal(t, checkout.PaymentStatusCreated, payment.Status)
		assert.Nil(t, payment.GatewayPaymentID)
		assert.Nil(t, payment.OrderID)
	})

	t.Run("cross-tenant product cannot be decremented", func(t *testing.T) {
		db := setupCheckoutTestDB(t)
		store := NewGormCheckoutStore(db)

		otherTenant := uuid.New()
		foreign := seedCheckoutProduct(t, db, otherTenant, "foreign", decimal.NewFromInt(100), 10)
		seedPendingPayment(t, db, "order_cross", decimal.NewFromInt(100))

		order, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(100), []checkout.OrderLine{
			{ProductID: foreign.ID, Quantity: 1, Price: foreign.Price},
		})
		require.NoError(t, err)

		_, err = store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_cross",
			GatewayPaymentID: "pay_cross",
			GatewaySignature: "sig",
			Order:            order,
		})
		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)

		var got catalog.Product
		require.NoError(t, db.First(&got, "id = ?", foreign.ID).Error)
		assert.Equal(t, int64(10), got.Stock)
	})

	t.Run("unknown gateway order reference is rejected before touching stock", func(t *testing.T) {
		db := setupCheckoutTestDB(t)
		store := NewGormCheckoutStore(db)

		p := seedCheckoutProduct(t, db, tenantID, "widget", decimal.NewFromInt(100), 5)

		order, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(100), []checkout.OrderLine{
			{ProductID: p.ID, Quantity: 1, Price: p.Price},
		})
		require.NoError(t, err)

		_, err = store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_missing",
			GatewayPaymentID: "pay_x",
			GatewaySignature: "sig",
			Order:            order,
		})
		assert.ErrorIs(t, err, shared.ErrPaymentNotFound)

		var got catalog.Product
		require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
		assert.Equal(t, int64(5), got.Stock)
	})

	t.Run("replayed commit with a repopulated cart is rejected", func(t *testing.T) {
		db := setupCheckoutTestDB(t)
		store := NewGormCheckoutStore(db)

		p := seedCheckoutProduct(t, db, tenantID, "widget", decimal.NewFromInt(100), 10)
		seedPendingPayment(t, db, "order_replay", decimal.NewFromInt(200))
		seedCartItem(t, db, tenantID, userID, p.ID, 2)

		first, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(200), []checkout.OrderLine{
			{ProductID: p.ID, Quantity: 2, Price: p.Price},
		})
		require.NoError(t, err)

		result, err := store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_replay",
			GatewayPaymentID: "pay_replay",
			GatewaySignature: "sig_replay",
			Order:            first,
		})
		require.NoError(t, err)

		// The same capture proof verifies again, so a client re-sending the
		// request after refilling the cart must not mint a second order.
		seedCartItem(t, db, tenantID, userID, p.ID, 2)
		second, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(200), []checkout.OrderLine{
			{ProductID: p.ID, Quantity: 2, Price: p.Price},
		})
		require.NoError(t, err)

		_, err = store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_replay",
			GatewayPaymentID: "pay_replay",
			GatewaySignature: "sig_replay",
			Order:            second,
		})
		assert.ErrorIs(t, err, shared.ErrPaymentAlreadyProcessed)

		var orderCount int64
		require.NoError(t, db.Model(&checkout.Order{}).Count(&orderCount).Error)
		assert.Equal(t, int64(1), orderCount)

		var got catalog.Product
		require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
		assert.Equal(t, int64(8), got.Stock, "stock must be decremented exactly once")

		var payment checkout.Payment
		require.NoError(t, db.First(&payment, "gateway_order_id = ?", "order_replay").Error)
		require.NotNil(t, payment.OrderID)
		assert.Equal(t, result.OrderID, *payment.OrderID, "payment must stay linked to the first order")
	})

	t.Run("payment the webhook already marked paid still commits", func(t *testing.T) {
		db := setupCheckoutTestDB(t)
		store := NewGormCheckoutStore(db)

		p := seedCheckoutProduct(t, db, tenantID, "widget", decimal.NewFromInt(100), 5)
		seeded := seedPendingPayment(t, db, "order_hooked", decimal.NewFromInt(100))
		require.NoError(t, db.Model(seeded).Updates(map[string]any{
			"status":             checkout.PaymentStatusPaid,
			"gateway_payment_id": "pay_hooked",
		}).Error)

		order, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(100), []checkout.OrderLine{
			{ProductID: p.ID, Quantity: 1, Price: p.Price},
		})
		require.NoError(t, err)

		result, err := store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_hooked",
			GatewayPaymentID: "pay_hooked",
			GatewaySignature: "sig_hooked",
			Order:            order,
		})
		require.NoError(t, err)

		var payment checkout.Payment
		require.NoError(t, db.First(&payment, "gateway_order_id = ?", "order_hooked").Error)
		require.NotNil(t, payment.OrderID)
		assert.Equal(t, result.OrderID, *payment.OrderID)
	})

	t.Run("order total drifting from the payment amount is rejected", func(t *testing.T) {
		db := setupCheckoutTestDB(t)
		store := NewGormCheckoutStore(db)

		p := seedCheckoutProduct(t, db, tenantID, "widget", decimal.NewFromInt(100), 5)
		seedPendingPayment(t, db, "order_drift", decimal.NewFromInt(100))

		// Cart grew after the intent was minted, so the recomputed total no
		// longer matches what the gateway captured.
		order, err := checkout.NewOrder(tenantID, userID, addressID, decimal.NewFromInt(300), []checkout.OrderLine{
			{ProductID: p.ID, Quantity: 3, Price: p.Price},
		})
		require.NoError(t, err)

		_, err = store.CommitCheckout(context.Background(), checkout.CommitRequest{
			GatewayOrderID:   "order_drift",
			GatewayPaymentID: "pay_drift",
			GatewaySignature: "sig_drift",
			Order:            order,
		})
		assert.ErrorIs(t, err, shared.ErrPaymentAmountMismatch)

		var orderCount int64
		require.NoError(t, db.Model(&checkout.Order{}).Count(&orderCount).Error)
		assert.Equal(t, int64(0), orderCount)

		var got catalog.Product
		require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
		assert.Equal(t, int64(5), got.Stock)

		var payment checkout.Payment
		require.NoError(t, db.First(&payment, "gateway_order_id = ?", "order_drift").Error)
		assert.Equal(t, checkout.PaymentStatusCreated, payment.Status)
		assert.Nil(t, payment.OrderID)
	})
}
