package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/orderdesk/pkg/adapters/memory"
	"github.com/aretw0/orderdesk/pkg/domain"
)

var errUnavailable = errors.New("store unavailable")

// spyStore wraps the in-memory catalog with call counters and failure injection.
type spyStore struct {
	*memory.Catalog

	creates     int
	adjusts     int
	setStatuses int

	failList      error
	failSearch    error
	failOrders    error
	failCreate    error
	failSetStatus error
	failGetOrder  error
	hideOrders    bool
	panicOnSearch bool

	// failAdjust fails the first adjustFailures AdjustStock calls.
	failAdjust     error
	adjustFailures int
}

func newSpy() *spyStore {
	return &spyStore{Catalog: memory.NewCatalog(domain.DefaultInventory()...)}
}

func (s *spyStore) ListAvailableModels(ctx context.Context) ([]string, error) {
	if s.failList != nil {
		return nil, s.failList
	}
	return s.Catalog.ListAvailableModels(ctx)
}

func (s *spyStore) SearchVehicles(ctx context.Context, term string, limit int) ([]domain.Vehicle, error) {
	if s.panicOnSearch {
		panic("search exploded")
	}
	if s.failSearch != nil {
		return nil, s.failSearch
	}
	return s.Catalog.SearchVehicles(ctx, term, limit)
}

func (s *spyStore) OrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	if s.failOrders != nil {
		return nil, s.failOrders
	}
	if s.hideOrders {
		return nil, nil
	}
	return s.Catalog.OrdersBySession(ctx, sessionID)
}

func (s *spyStore) CreateOrder(ctx context.Context, model, userName, sessionID string) (*domain.Order, error) {
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	s.creates++
	return s.Catalog.CreateOrder(ctx, model, userName, sessionID)
}

func (s *spyStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if s.failGetOrder != nil {
		return nil, s.failGetOrder
	}
	return s.Catalog.GetOrder(ctx, orderID)
}

func (s *spyStore) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if s.failSetStatus != nil {
		return s.failSetStatus
	}
	s.setStatuses++
	return s.Catalog.SetOrderStatus(ctx, orderID, status)
}

func (s *spyStore) AdjustStock(ctx context.Context, model string, delta int) error {
	s.adjusts++
	if s.failAdjust != nil && s.adjustFailures > 0 {
		s.adjustFailures--
		return s.failAdjust
	}
	return s.Catalog.AdjustStock(ctx, model, delta)
}

func (s *spyStore) stock(t *testing.T, model string) int {
	t.Helper()
	v, err := s.Catalog.FindVehicle(context.Background(), model)
	if err != nil {
		t.Fatalf("find %s: %v", model, err)
	}
	return v.Stock
}

// recordingObserver captures notifications.
type recordingObserver struct {
	mu      sync.Mutex
	intents []domain.Intent
	results []domain.Result
	drifts  []string
}

func (o *recordingObserver) OnIntent(_ context.Context, _ string, in domain.Intent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.intents = append(o.intents, in)
}

func (o *recordingObserver) OnResult(_ context.Context, _ string, res domain.Result, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, res)
}

func (o *recordingObserver) OnStockDrift(_ context.Context, model string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.drifts = append(o.drifts, model)
}

func newDesk(store *spyStore, opts ...Option) *Desk {
	opts = append([]Option{WithStockRetry(3, time.Millisecond)}, opts...)
	return New(store, opts...)
}
