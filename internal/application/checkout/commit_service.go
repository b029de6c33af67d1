package checkout

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CommitService verifies a client's capture proof and applies the checkout
// commit. Signature verification happens before any database work; the order
// itself is priced server-side from the cart and the product catalog, never
// from client-supplied amounts.
type CommitService struct {
	keySecret     string
	commitTimeout time.Duration
	carts         checkout.CartRepository
	products      catalog.Repository
	store         checkout.Store
	logger        *zap.Logger
}

// CommitServiceConfig contains the dependencies for CommitService
type CommitServiceConfig struct {
	KeySecret     string
	CommitTimeout time.Duration
	Carts         checkout.CartRepository
	Products      catalog.Repository
	Store         checkout.Store
	Logger        *zap.Logger
}

// NewCommitService creates a new CommitService
func NewCommitService(cfg CommitServiceConfig) *CommitService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommitService{
		keySecret:     cfg.KeySecret,
		commitTimeout: cfg.CommitTimeout,
		carts:         cfg.Carts,
		products:      cfg.Products,
		store:         cfg.Store,
		logger:        logger,
	}
}

// VerifyAndCommit checks the gateway signature and, on success, commits the
// order atomically. A failed signature rejects the request before any state
// is touched. The commit transaction is bounded by the configured timeout so
// a stalled database cannot hold the connection indefinitely.
func (s *CommitService) VerifyAndCommit(ctx context.Context, req VerifyCheckoutRequest) (*CommitResponse, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, shared.ErrTenantRequired
	}
	tenantID, err := tc.RequireTenant()
	if err != nil {
		return nil, err
	}

	if !checkout.VerifySignature(s.keySecret, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		s.logger.Warn("checkout signature verification failed",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("tenant_id", tenantID.String()))
		return nil, shared.ErrInvalidSignature
	}

	items, err := s.carts.FindByUser(ctx, tenantID, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, checkout.ErrEmptyCart
	}

	total := decimal.Zero
	lines := make([]checkout.OrderLine, 0, len(items))
	for _, item := range items {
		product, err := s.products.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, checkout.OrderLine{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}

	order, err := checkout.NewOrder(tenantID, req.UserID, req.AddressID, total, lines)
	if err != nil {
		return nil, err
	}

	commitCtx := ctx
	if s.commitTimeout > 0 {
		var cancel context.CancelFunc
		commitCtx, cancel = context.WithTimeout(ctx, s.commitTimeout)
		defer cancel()
	}

	result, err := s.store.CommitCheckout(commitCtx, checkout.CommitRequest{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		GatewaySignature: req.GatewaySignature,
		Order:            order,
	})
	if err != nil {
		s.logger.Error("checkout commit failed",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("checkout committed",
		zap.String("order_id", result.OrderID.String()),
		zap.String("gateway_order_id", req.GatewayOrderID),
		zap.String("tenant_id", tenantID.String()))

	return &CommitResponse{
		OrderID: result.OrderID.String(),
		Status:  string(checkout.OrderStatusConfirmed),
	}, nil
}
