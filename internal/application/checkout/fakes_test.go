package checkout

import (
	"context"
	"time"

	domain "github.com/storefront/backend/internal/domain/checkout"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type fakeGateway struct {
	order *domain.GatewayOrder
	err   error
	got   *domain.CreateGatewayOrderRequest
}

func (f *fakeGateway) CreateGatewayOrder(_ context.Context, req domain.CreateGatewayOrderRequest) (*domain.GatewayOrder, error) {
	f.got = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

type fakePaymentRepo struct {
	saved      []*domain.Payment
	saveErr    error
	markPaid   [][2]string
	markErr    error
	unlinked   []domain.Payment
	unlinkErr  error
	byOrderID  map[string]*domain.Payment
	findErr    error
}

func (f *fakePaymentRepo) Save(_ context.Context, p *domain.Payment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, p)
	return nil
}

func (f *fakePaymentRepo) FindByGatewayOrderID(_ context.Context, gatewayOrderID string) (*domain.Payment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.byOrderID[gatewayOrderID]
	if !ok {
		return nil, shared.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) MarkPaid(_ context.Context, gatewayPaymentID, gatewayOrderID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markPaid = append(f.markPaid, [2]string{gatewayPaymentID, gatewayOrderID})
	return nil
}

func (f *fakePaymentRepo) FindPaidWithoutOrder(_ context.Context, _ time.Time) ([]domain.Payment, error) {
	if f.unlinkErr != nil {
		return nil, f.unlinkErr
	}
	return f.unlinked, nil
}

type fakeCartRepo struct {
	items []domain.CartItem
	err   error
}

func (f *fakeCartRepo) FindByUser(_ context.Context, _, _ uuid.UUID) ([]domain.CartItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeCartRepo) Save(_ context.Context, _ *domain.CartItem) error { return nil }

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (f *fakeProductRepo) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Save(_ context.Context, _ *catalog.Product) error { return nil }

type fakeStore struct {
	result *domain.CommitResult
	err    error
	got    *domain.CommitRequest
}

func (f *fakeStore) CommitCheckout(_ context.Context, req domain.CommitRequest) (*domain.CommitResult, error) {
	f.got = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeDedupe struct {
	seen    map[string]bool
	markErr error
}

func newFakeDedupe() *fakeDedupe {
	return &fakeDedupe{seen: make(map[string]bool)}
}

func (f *fakeDedupe) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.seen[eventID] {
		return false, nil
	}
	f.seen[eventID] = true
	return true, nil
}

func (f *fakeDedupe) IsProcessed(_ context.Context, eventID string) (bool, error) {
	return f.seen[eventID], nil
}

func (f *fakeDedupe) Close() error { return nil }
