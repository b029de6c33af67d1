package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/gateway"
	"go.uber.org/zap"
)

const defaultDedupeTTL = 24 * time.Hour

// WebhookService applies gateway webhook deliveries. Reconciliation is keyed
// by the gateway payment id and applied as an idempotent update, so retried
// and out-of-order deliveries converge on the same row state. The dedupe
// store is an optimization in front of that update, not a correctness
// requirement.
type WebhookService struct {
	webhookSecret string
	payments      checkout.PaymentRepository
	dedupe        shared.IdempotencyStore
	dedupeTTL     time.Duration
	logger        *zap.Logger
}

// WebhookServiceConfig contains the dependencies for WebhookService
type WebhookServiceConfig struct {
	WebhookSecret string
	Payments      checkout.PaymentRepository
	Dedupe        shared.IdempotencyStore
	DedupeTTL     time.Duration
	Logger        *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.DedupeTTL
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}
	return &WebhookService{
		webhookSecret: cfg.WebhookSecret,
		payments:      cfg.Payments,
		dedupe:        cfg.Dedupe,
		dedupeTTL:     ttl,
		logger:        logger,
	}
}

// ProcessWebhook verifies the delivery signature over the raw body and
// applies payment.captured events. Unknown event types and events for
// payments this system never minted are acknowledged without effect, so the
// gateway stops retrying them.
func (s *WebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	if !checkout.VerifyWebhookSignature(s.webhookSecret, payload, signature) {
		s.logger.Warn("webhook signature verification failed")
		return nil, shared.ErrInvalidSignature
	}

	event, err := gateway.ParseWebhookEvent(payload)
	if err != nil {
		s.logger.Warn("webhook payload parse failed", zap.Error(err))
		return nil, shared.ErrInvalidInput
	}

	result := &WebhookResult{EventType: event.Event}

	if event.Event != gateway.EventPaymentCaptured {
		s.logger.Debug("ignoring webhook event type", zap.String("event_type", event.Event))
		result.Message = "event type not handled"
		return result, nil
	}

	entity := event.Payload.Payment.Entity
	result.PaymentID = entity.ID
	if entity.ID == "" {
		s.logger.Warn("captured event carries no payment id")
		result.Message = "missing payment id"
		return result, nil
	}

	if s.dedupe != nil {
		fresh, err := s.dedupe.MarkProcessed(ctx, entity.ID, s.dedupeTTL)
		if err != nil {
			// Dedupe store trouble must not drop deliveries; the update
			// below is idempotent either way.
			s.logger.Warn("idempotency store unavailable, applying event anyway", zap.Error(err))
		} else if !fresh {
			s.logger.Debug("duplicate webhook delivery", zap.String("payment_id", entity.ID))
			result.Processed = true
			result.Message = "duplicate delivery"
			return result, nil
		}
	}

	if err := s.payments.MarkPaid(ctx, entity.ID, entity.OrderID); err != nil {
		if errors.Is(err, shared.ErrPaymentNotFound) {
			// Deliveries for payments minted elsewhere are acknowledged so
			// the gateway stops retrying; there is nothing to reconcile.
			s.logger.Warn("captured event matches no payment",
				zap.String("payment_id", entity.ID),
				zap.String("gateway_order_id", entity.OrderID))
			result.Message = "no matching payment"
			return result, nil
		}
		s.logger.Error("failed to apply captured event",
			zap.String("payment_id", entity.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment captured",
		zap.String("payment_id", entity.ID),
		zap.String("gateway_order_id", entity.OrderID))

	result.Processed = true
	return result, nil
}
