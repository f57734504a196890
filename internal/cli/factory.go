package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/orderdesk"
	"github.com/aretw0/orderdesk/internal/config"
	"github.com/aretw0/orderdesk/pkg/adapters/file"
	"github.com/aretw0/orderdesk/pkg/adapters/memory"
	"github.com/aretw0/orderdesk/pkg/adapters/postgres"
	redisstore "github.com/aretw0/orderdesk/pkg/adapters/redis"
	"github.com/aretw0/orderdesk/pkg/adapters/retrying"
	"github.com/aretw0/orderdesk/pkg/adapters/sqlite"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/observability"
	"github.com/aretw0/orderdesk/pkg/persistence/middleware"
	"github.com/aretw0/orderdesk/pkg/ports"
)

// App is a fully wired order desk plus the pieces the hosts expose next to it.
type App struct {
	Desk    *orderdesk.OrderDesk
	Metrics *observability.Metrics
	Config  *config.Config
	Logger  *slog.Logger
}

// Close releases every store and client the desk was built with.
func (a *App) Close() error {
	return a.Desk.Close()
}

// Build wires stores, session persistence, locking and observability from cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var closers []io.Closer
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}

	// 1. Durable store
	store, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	// 2. Sessions and locking
	sessions, locker, closer, err := openSessions(cfg, store, logger)
	if err != nil {
		return fail(err)
	}
	if closer != nil {
		closers = append(closers, closer)
	}
	if cfg.Sessions.EncryptionKey != "" {
		if sessions, err = sealSessions(sessions, cfg.Sessions); err != nil {
			return fail(err)
		}
	}

	// 3. Observability
	metrics := observability.NewMetrics()
	observer := observability.NewAggregator(metrics, observability.NewAuditLog(logger))

	opts := []orderdesk.Option{
		orderdesk.WithStore(store),
		orderdesk.WithSessionStore(sessions),
		orderdesk.WithObserver(observer),
		orderdesk.WithStockRetry(cfg.Retry.StockAttempts, cfg.Retry.StockBase),
		orderdesk.WithSeed(cfg.Store.Seed),
		orderdesk.WithLogger(logger),
	}
	if locker != nil {
		opts = append(opts, orderdesk.WithLocker(locker, cfg.Locking.TTL))
	}
	for _, c := range closers {
		opts = append(opts, orderdesk.WithCloser(c))
	}

	desk, err := orderdesk.New(ctx, opts...)
	if err != nil {
		return fail(err)
	}

	// 4. Operator catalog
	if cfg.Store.Catalog != "" {
		if err := ImportCatalog(ctx, desk.Store(), cfg.Store.Catalog); err != nil {
			_ = desk.Close()
			return nil, err
		}
		logger.Info("Catalog imported", "path", cfg.Store.Catalog)
	}

	logger.Debug("Order desk ready",
		"store", cfg.Store.Driver,
		"sessions", cfg.Sessions.Driver,
		"distributed_lock", locker != nil,
	)
	return &App{Desk: desk, Metrics: metrics, Config: cfg, Logger: logger}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.DurableStore, io.Closer, error) {
	retryOpts := []retrying.Option{
		retrying.WithAttempts(cfg.Retry.StoreAttempts),
		retrying.WithTimeout(cfg.Retry.StoreTimeout),
		retrying.WithLogger(logger),
	}

	switch cfg.Store.Driver {
	case "memory":
		return memory.NewCatalog(), nil, nil
	case "sqlite":
		s, err := sqlite.Open(cfg.Store.DSN, sqlite.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return retrying.New(s, retryOpts...), s, nil
	case "postgres":
		s, err := postgres.Open(ctx, cfg.Store.DSN, postgres.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return retrying.New(s, retryOpts...), s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openSessions(cfg *config.Config, store ports.DurableStore, logger *slog.Logger) (ports.SessionStore, ports.DistributedLocker, io.Closer, error) {
	switch cfg.Sessions.Driver {
	case "memory":
		return memory.NewStore(), nil, nil, nil
	case "file":
		return file.New(cfg.Sessions.Dir), nil, nil, nil
	case "sqlite":
		if r, ok := store.(*retrying.Store); ok {
			store = r.Unwrap()
		}
		s, ok := store.(*sqlite.Store)
		if !ok {
			return nil, nil, nil, errors.New("sqlite sessions require the sqlite store")
		}
		return s.Sessions(), nil, nil, nil
	case "redis":
		client := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		sessions := redisstore.NewFromClient(client,
			redisstore.WithTTL(cfg.Sessions.TTL),
			redisstore.WithPrefix(cfg.Redis.Prefix),
		)
		var locker ports.DistributedLocker
		if cfg.Locking.Distributed {
			locker = redisstore.NewLocker(client, cfg.Redis.Prefix)
			logger.Info("Distributed session locking enabled", "redis", cfg.Redis.Addr)
		}
		return sessions, locker, sessions, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown sessions driver %q", cfg.Sessions.Driver)
	}
}

func sealSessions(store ports.SessionStore, cfg config.SessionsConfig) (ports.SessionStore, error) {
	active, err := middleware.DecodeKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("sessions.encryption_key: %w", err)
	}
	encCfg := middleware.EncryptionConfig{ActiveKey: active}
	for _, k := range cfg.FallbackKeys {
		key, err := middleware.DecodeKey(k)
		if err != nil {
			return nil, fmt.Errorf("sessions.fallback_keys: %w", err)
		}
		encCfg.FallbackKeys = append(encCfg.FallbackKeys, key)
	}

	mw, err := middleware.NewEncryptionMiddleware(encCfg)
	if err != nil {
		return nil, err
	}
	return middleware.Chain(store, mw), nil
}

// catalogFile is the on-disk shape of an operator catalog.
type catalogFile struct {
	Vehicles []domain.Vehicle `yaml:"vehicles"`
}

// LoadCatalog reads a vehicles YAML file. Prices are in cents.
func LoadCatalog(path string) ([]domain.Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for i, v := range f.Vehicles {
		if v.Model == "" {
			return nil, fmt.Errorf("%s: vehicle %d has no model", path, i+1)
		}
		if v.Price < 0 || v.DeliveryDays < 0 {
			return nil, fmt.Errorf("%s: vehicle %q has a negative price or delivery time", path, v.Model)
		}
	}
	return f.Vehicles, nil
}

// ImportCatalog upserts the vehicles of path into store.
func ImportCatalog(ctx context.Context, store ports.DurableStore, path string) error {
	writer, ok := store.(ports.CatalogWriter)
	if !ok {
		return errors.New("store does not accept catalog updates")
	}
	vehicles, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	return writer.UpsertVehicles(ctx, vehicles...)
}
