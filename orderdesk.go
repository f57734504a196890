package orderdesk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/orderdesk/internal/logging"
	"github.com/aretw0/orderdesk/pkg/adapters/memory"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/inventory"
	"github.com/aretw0/orderdesk/pkg/orders"
	"github.com/aretw0/orderdesk/pkg/ports"
	"github.com/aretw0/orderdesk/pkg/session"
)

// OrderDesk is the high-level entry point of the library. It wires the conversational
// order handler, the inventory specialist and the session manager around one durable store.
type OrderDesk struct {
	store     ports.DurableStore
	sessions  *session.Manager
	desk      *orders.Desk
	inventory *inventory.Specialist

	sessionStore ports.SessionStore
	locker       ports.DistributedLocker
	lockTTL      time.Duration
	observer     orders.Observer
	deskOpts     []orders.Option
	seed         bool
	closers      []io.Closer
	logger       *slog.Logger
}

// Option defines a functional option for configuring the OrderDesk.
type Option func(*OrderDesk)

// WithStore sets the durable store. Defaults to an in-memory catalog.
func WithStore(store ports.DurableStore) Option {
	return func(o *OrderDesk) {
		o.store = store
	}
}

// WithSessionStore sets where sessions live between turns. Defaults to memory.
func WithSessionStore(store ports.SessionStore) Option {
	return func(o *OrderDesk) {
		o.sessionStore = store
	}
}

// WithLocker serialises turns of one session across replicas.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(o *OrderDesk) {
		o.locker = locker
		o.lockTTL = ttl
	}
}

// WithObserver registers a desk observer (metrics, audit).
func WithObserver(observer orders.Observer) Option {
	return func(o *OrderDesk) {
		o.observer = observer
	}
}

// WithStockRetry configures the stock adjustment retry policy.
func WithStockRetry(attempts uint64, base time.Duration) Option {
	return func(o *OrderDesk) {
		o.deskOpts = append(o.deskOpts, orders.WithStockRetry(attempts, base))
	}
}

// WithSeed loads the default inventory into an empty store on New.
func WithSeed(seed bool) Option {
	return func(o *OrderDesk) {
		o.seed = seed
	}
}

// WithCloser registers a resource released by Close, in reverse order.
func WithCloser(c io.Closer) Option {
	return func(o *OrderDesk) {
		o.closers = append(o.closers, c)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *OrderDesk) {
		o.logger = logger
	}
}

// New builds an OrderDesk. Without options it runs fully in memory over the
// default inventory.
func New(ctx context.Context, opts ...Option) (*OrderDesk, error) {
	o := &OrderDesk{
		logger: logging.NewNop(),
		seed:   true,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.store == nil {
		o.store = memory.NewCatalog()
	}
	if o.sessionStore == nil {
		o.sessionStore = memory.NewStore()
	}

	if o.seed {
		if seeder, ok := o.store.(ports.Seeder); ok {
			if err := seeder.Seed(ctx); err != nil {
				return nil, fmt.Errorf("failed to seed inventory: %w", err)
			}
		}
	}

	deskOpts := append([]orders.Option{orders.WithLogger(o.logger)}, o.deskOpts...)
	if o.observer != nil {
		deskOpts = append(deskOpts, orders.WithObserver(o.observer))
	}
	o.desk = orders.New(o.store, deskOpts...)
	o.inventory = inventory.New(o.store, inventory.WithLogger(o.logger))

	managerOpts := []session.Option{session.WithLogger(o.logger)}
	if o.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(o.locker), session.WithLockTTL(o.lockTTL))
	}
	o.sessions = session.NewManager(o.sessionStore, managerOpts...)

	return o, nil
}

// Handle processes one utterance against a caller-owned session.
// The caller must not run two calls for the same session concurrently.
func (o *OrderDesk) Handle(ctx context.Context, utterance string, s *domain.Session, sessionID, userName string) domain.Result {
	return o.desk.Handle(ctx, utterance, s, sessionID, userName)
}

// Converse processes one utterance for a stored session, creating it on first use.
func (o *OrderDesk) Converse(ctx context.Context, sessionID, userName, utterance string) (domain.Result, error) {
	return o.sessions.Converse(ctx, sessionID, userName, utterance, o.desk.Handle)
}

// Status reports the orders of a stored session without classifying an utterance.
// It is read-only: the stored session is never modified, even when the store fails.
func (o *OrderDesk) Status(ctx context.Context, sessionID string) (domain.Result, error) {
	var res domain.Result
	err := o.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := o.sessionStore.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			s, err = domain.NewSession(sessionID), nil
		}
		if err != nil {
			return err
		}
		res = o.desk.Status(ctx, s.Snapshot(), sessionID)
		return nil
	})
	return res, err
}

// Ask answers a free-form inventory question.
func (o *OrderDesk) Ask(ctx context.Context, utterance string) domain.Result {
	return o.inventory.Answer(ctx, utterance)
}

// Search ranks the catalog against term.
func (o *OrderDesk) Search(ctx context.Context, term string, limit int) ([]domain.Vehicle, error) {
	return o.store.SearchVehicles(ctx, term, limit)
}

// AvailableModels lists in-stock models by name.
func (o *OrderDesk) AvailableModels(ctx context.Context) ([]string, error) {
	return o.store.ListAvailableModels(ctx)
}

// Health reports the number of catalog entries, or why the store is unreachable.
func (o *OrderDesk) Health(ctx context.Context) (int, error) {
	if checker, ok := o.store.(ports.HealthChecker); ok {
		return checker.Health(ctx)
	}
	models, err := o.store.ListAvailableModels(ctx)
	return len(models), err
}

// Desk returns the conversational order handler.
func (o *OrderDesk) Desk() *orders.Desk {
	return o.desk
}

// Inventory returns the inventory specialist.
func (o *OrderDesk) Inventory() *inventory.Specialist {
	return o.inventory
}

// Sessions returns the session manager.
func (o *OrderDesk) Sessions() *session.Manager {
	return o.sessions
}

// Store returns the durable store.
func (o *OrderDesk) Store() ports.DurableStore {
	return o.store
}

// Close releases registered resources, newest first.
func (o *OrderDesk) Close() error {
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
