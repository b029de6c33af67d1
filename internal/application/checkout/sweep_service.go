package checkout

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/checkout"
	"go.uber.org/zap"
)

// SweepService surfaces payments the gateway captured but no commit ever
// linked to an order, usually because the client dropped off between capture
// and verification. Findings are reported for operator follow-up; the sweep
// never creates orders on its own since the cart that priced the purchase is
// gone by then.
type SweepService struct {
	payments checkout.PaymentRepository
	sweepAge time.Duration
	logger   *zap.Logger
}

// NewSweepService creates a new SweepService
func NewSweepService(payments checkout.PaymentRepository, sweepAge time.Duration, logger *zap.Logger) *SweepService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepService{
		payments: payments,
		sweepAge: sweepAge,
		logger:   logger,
	}
}

// SweepUnlinkedPayments lists paid-without-order payments older than the
// configured age. Recent rows are skipped to leave in-flight commits alone.
func (s *SweepService) SweepUnlinkedPayments(ctx context.Context) ([]UnlinkedPayment, error) {
	cutoff := time.Now().Add(-s.sweepAge)
	payments, err := s.payments.FindPaidWithoutOrder(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	findings := make([]UnlinkedPayment, 0, len(payments))
	for _, p := range payments {
		finding := UnlinkedPayment{
			GatewayOrderID: p.GatewayOrderID,
			Amount:         p.Amount.StringFixed(2),
			Currency:       p.Currency,
			UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if p.GatewayPaymentID != nil {
			finding.GatewayPaymentID = *p.GatewayPaymentID
		}
		s.logger.Warn("paid payment with no order",
			zap.String("gateway_order_id", finding.GatewayOrderID),
			zap.String("gateway_payment_id", finding.GatewayPaymentID),
			zap.String("amount", finding.Amount))
		findings = append(findings, finding)
	}
	return findings, nil
}
