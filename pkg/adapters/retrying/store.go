// Package retrying decorates a DurableStore with a per-call timeout and bounded
// exponential retry of transient failures.
package retrying

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/aretw0/orderdesk/internal/logging"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/ports"
)

const (
	DefaultAttempts = 3
	DefaultBase     = 50 * time.Millisecond
	DefaultTimeout  = 5 * time.Second
)

// Store wraps a ports.DurableStore.
// Domain sentinels (not found, out of stock) and context cancellation are never retried.
type Store struct {
	next     ports.DurableStore
	attempts uint64
	base     time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithAttempts sets the total number of tries per call (minimum 1).
func WithAttempts(n uint64) Option {
	return func(s *Store) {
		s.attempts = max(1, n)
	}
}

// WithBase sets the initial backoff.
func WithBase(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.base = d
		}
	}
}

// WithTimeout bounds each individual try. Zero disables the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New wraps next.
func New(next ports.DurableStore, opts ...Option) *Store {
	s := &Store{
		next:     next,
		attempts: DefaultAttempts,
		base:     DefaultBase,
		timeout:  DefaultTimeout,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Unwrap returns the decorated store.
func (s *Store) Unwrap() ports.DurableStore {
	return s.next
}

func permanent(err error) bool {
	return errors.Is(err, domain.ErrVehicleNotFound) ||
		errors.Is(err, domain.ErrOutOfStock) ||
		errors.Is(err, domain.ErrOrderNotFound) ||
		errors.Is(err, context.Canceled)
}

func (s *Store) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(s.attempts-1, retry.NewExponential(s.base))
	try := 0

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		try++
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		}
		defer cancel()

		err := fn(callCtx)
		if err == nil || permanent(err) {
			return err
		}
		s.logger.Debug("Store call failed", "op", op, "try", try, "err", err)
		return retry.RetryableError(err)
	})
}

func (s *Store) FindVehicle(ctx context.Context, model string) (v *domain.Vehicle, err error) {
	err = s.do(ctx, "find_vehicle", func(ctx context.Context) error {
		v, err = s.next.FindVehicle(ctx, model)
		return err
	})
	return v, err
}

func (s *Store) SearchVehicles(ctx context.Context, term string, limit int) (vs []domain.Vehicle, err error) {
	err = s.do(ctx, "search_vehicles", func(ctx context.Context) error {
		vs, err = s.next.SearchVehicles(ctx, term, limit)
		return err
	})
	return vs, err
}

func (s *Store) ListAvailableModels(ctx context.Context) (models []string, err error) {
	err = s.do(ctx, "list_models", func(ctx context.Context) error {
		models, err = s.next.ListAvailableModels(ctx)
		return err
	})
	return models, err
}

// AdjustStock is not idempotent; a try that timed out after committing may be applied twice.
func (s *Store) AdjustStock(ctx context.Context, model string, delta int) error {
	return s.do(ctx, "adjust_stock", func(ctx context.Context) error {
		return s.next.AdjustStock(ctx, model, delta)
	})
}

// CreateOrder is tried once: a retried insert could record a second order.
func (s *Store) CreateOrder(ctx context.Context, model, userName, sessionID string) (*domain.Order, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.next.CreateOrder(ctx, model, userName, sessionID)
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (o *domain.Order, err error) {
	err = s.do(ctx, "get_order", func(ctx context.Context) error {
		o, err = s.next.GetOrder(ctx, orderID)
		return err
	})
	return o, err
}

func (s *Store) OrdersBySession(ctx context.Context, sessionID string) (orders []domain.Order, err error) {
	err = s.do(ctx, "orders_by_session", func(ctx context.Context) error {
		orders, err = s.next.OrdersBySession(ctx, sessionID)
		return err
	})
	return orders, err
}

// SetOrderStatus is idempotent, so it is retried like a read.
func (s *Store) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return s.do(ctx, "set_order_status", func(ctx context.Context) error {
		return s.next.SetOrderStatus(ctx, orderID, status)
	})
}

// Seed forwards to the wrapped store when it supports seeding.
func (s *Store) Seed(ctx context.Context) error {
	if seeder, ok := s.next.(ports.Seeder); ok {
		return s.do(ctx, "seed", seeder.Seed)
	}
	return nil
}

// Health forwards to the wrapped store when it supports health checks.
func (s *Store) Health(ctx context.Context) (int, error) {
	checker, ok := s.next.(ports.HealthChecker)
	if !ok {
		return 0, errors.New("store does not report health")
	}
	return checker.Health(ctx)
}

// Vehicles forwards to the wrapped store when it exposes its catalog.
func (s *Store) Vehicles(ctx context.Context) (vs []domain.Vehicle, err error) {
	writer, ok := s.next.(ports.CatalogWriter)
	if !ok {
		return nil, errors.New("store does not expose its catalog")
	}
	err = s.do(ctx, "vehicles", func(ctx context.Context) error {
		vs, err = writer.Vehicles(ctx)
		return err
	})
	return vs, err
}

// UpsertVehicles is idempotent and retried; it fails when the wrapped store has a fixed catalog.
func (s *Store) UpsertVehicles(ctx context.Context, vehicles ...domain.Vehicle) error {
	writer, ok := s.next.(ports.CatalogWriter)
	if !ok {
		return errors.New("store does not accept catalog updates")
	}
	return s.do(ctx, "upsert_vehicles", func(ctx context.Context) error {
		return writer.UpsertVehicles(ctx, vehicles...)
	})
}
