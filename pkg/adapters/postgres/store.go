// Package postgres provides a PostgreSQL-backed durable store for multi-replica deployments.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aretw0/orderdesk/internal/logging"
	"github.com/aretw0/orderdesk/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
    model         TEXT PRIMARY KEY,
    price         BIGINT NOT NULL,
    stock         INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    delivery_days INTEGER NOT NULL,
    category      TEXT NOT NULL DEFAULT '',
    fuel_type     TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS vehicles_model_lower ON vehicles (lower(model));

CREATE TABLE IF NOT EXISTS orders (
    id            TEXT PRIMARY KEY,
    seq           BIGSERIAL,
    session_id    TEXT NOT NULL,
    user_name     TEXT NOT NULL,
    model         TEXT NOT NULL,
    price         BIGINT NOT NULL,
    delivery_days INTEGER NOT NULL,
    status        TEXT NOT NULL CHECK (status IN ('confirmed', 'cancelled')),
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_session ON orders (session_id, created_at);
`

const vehicleColumns = "model, price, stock, delivery_days, category, fuel_type"

const orderColumns = "id, session_id, user_name, model, price, delivery_days, status, created_at, updated_at"

// Store implements ports.DurableStore on a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := &Store{
		pool:   pool,
		logger: logging.NewNop(),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Debug("Schema ready")
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Health reports the number of catalog entries.
func (s *Store) Health(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vehicles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return n, nil
}

// Seed inserts domain.DefaultInventory when the catalog is empty.
func (s *Store) Seed(ctx context.Context) error {
	n, err := s.Health(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, v := range domain.DefaultInventory() {
		batch.Queue("INSERT INTO vehicles ("+vehicleColumns+") VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING",
			v.Model, v.Price, v.Stock, v.DeliveryDays, v.Category, v.FuelType)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	s.logger.Info("Catalog seeded", "vehicles", batch.Len())
	return nil
}

// UpsertVehicles inserts vehicles or overwrites the entries with the same model.
func (s *Store) UpsertVehicles(ctx context.Context, vehicles ...domain.Vehicle) error {
	batch := &pgx.Batch{}
	for _, v := range vehicles {
		batch.Queue(`
			INSERT INTO vehicles (`+vehicleColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT ((lower(model))) DO UPDATE SET
				price = EXCLUDED.price,
				stock = EXCLUDED.stock,
				delivery_days = EXCLUDED.delivery_days,
				category = EXCLUDED.category,
				fuel_type = EXCLUDED.fuel_type`,
			strings.TrimSpace(v.Model), v.Price, max(0, v.Stock), v.DeliveryDays, v.Category, v.FuelType)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert vehicles: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Info("Catalog updated", "vehicles", len(vehicles))
	return nil
}

// Vehicles returns the whole catalog ordered by model.
func (s *Store) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+vehicleColumns+` FROM vehicles ORDER BY model COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Vehicle, error) {
		return scanVehicle(row)
	})
}

func scanVehicle(row pgx.Row) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.Model, &v.Price, &v.Stock, &v.DeliveryDays, &v.Category, &v.FuelType)
	return v, err
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.ID, &o.SessionID, &o.UserName, &o.Model, &o.Price, &o.DeliveryDays,
		&status, &o.CreatedAt, &o.UpdatedAt)
	o.Status = domain.OrderStatus(status)
	o.CreatedAt, o.UpdatedAt = o.CreatedAt.UTC(), o.UpdatedAt.UTC()
	return o, err
}

// FindVehicle looks a vehicle up by model, case-insensitively.
func (s *Store) FindVehicle(ctx context.Context, model string) (*domain.Vehicle, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE lower(model) = lower($1)", strings.TrimSpace(model))
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return &v, nil
}

// SearchVehicles ranks the catalog against term. strpos avoids LIKE wildcard escaping.
func (s *Store) SearchVehicles(ctx context.Context, term string, limit int) ([]domain.Vehicle, error) {
	term = domain.NormalizeTerm(term)
	if term == "" || limit <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s,
				CASE
					WHEN lower(model) = $1 THEN %d
					WHEN strpos(lower(model), $1) = 1 THEN %d
					WHEN strpos(lower(model), $1) > 0 THEN %d
					WHEN EXISTS (
						SELECT 1 FROM unnest($2::text[]) AS w WHERE strpos(lower(model), w) > 0
					) THEN %d
					ELSE %d
				END AS match_rank
			FROM vehicles
		) ranked
		WHERE match_rank < %d
		ORDER BY match_rank, stock DESC, model COLLATE "C"
		LIMIT $3
	`, vehicleColumns, vehicleColumns,
		domain.RankExact, domain.RankPrefix, domain.RankSubstring, domain.RankWord,
		domain.RankNone, domain.RankNone),
		term, strings.Fields(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search vehicles: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Vehicle, error) {
		return scanVehicle(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan vehicles: %w", err)
	}
	return out, nil
}

// ListAvailableModels returns in-stock models sorted by name.
func (s *Store) ListAvailableModels(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT model FROM vehicles WHERE stock > 0 ORDER BY model COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	models, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan models: %w", err)
	}
	return models, nil
}

// AdjustStock adds delta to the model's stock, flooring at zero.
func (s *Store) AdjustStock(ctx context.Context, model string, delta int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE vehicles SET stock = GREATEST(0, stock + $1) WHERE lower(model) = lower($2)",
		delta, strings.TrimSpace(model))
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	return nil
}

// CreateOrder records a confirmed order for an in-stock model.
func (s *Store) CreateOrder(ctx context.Context, model, userName, sessionID string) (*domain.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE lower(model) = lower($1) FOR SHARE",
		strings.TrimSpace(model))
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	if !v.InStock() {
		return nil, fmt.Errorf("%w: %q", domain.ErrOutOfStock, v.Model)
	}

	now := s.now()
	o := domain.Order{
		ID:           domain.NewOrderID(),
		SessionID:    sessionID,
		UserName:     userName,
		Model:        v.Model,
		Price:        v.Price,
		DeliveryDays: v.DeliveryDays,
		Status:       domain.OrderConfirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = tx.Exec(ctx,
		"INSERT INTO orders ("+orderColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		o.ID, o.SessionID, o.UserName, o.Model, o.Price, o.DeliveryDays,
		string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &o, nil
}

// GetOrder returns the order with the given ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// OrdersBySession lists the session's orders, newest first.
func (s *Store) OrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE session_id = $1 ORDER BY created_at DESC, seq DESC",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	return out, nil
}

// SetOrderStatus transitions an order.
func (s *Store) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		string(status), s.now(), orderID)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", domain.ErrOrderNotFound, orderID)
	}
	return nil
}

// Reset deletes every order and vehicle. Intended for test fixtures and demo resets.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "TRUNCATE orders, vehicles"); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	s.logger.Warn("Store reset")
	return nil
}
