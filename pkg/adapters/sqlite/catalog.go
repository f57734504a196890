package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/orderdesk/pkg/domain"
)

const vehicleColumns = "model, price, stock, delivery_days, category, fuel_type"

const orderColumns = "id, session_id, user_name, model, price, delivery_days, status, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row scanner) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.Model, &v.Price, &v.Stock, &v.DeliveryDays, &v.Category, &v.FuelType)
	return v, err
}

func scanOrder(row scanner) (domain.Order, error) {
	var (
		o                domain.Order
		status           string
		created, updated string
	)
	if err := row.Scan(&o.ID, &o.SessionID, &o.UserName, &o.Model, &o.Price, &o.DeliveryDays,
		&status, &created, &updated); err != nil {
		return o, err
	}
	o.Status = domain.OrderStatus(status)

	var err error
	if o.CreatedAt, err = parseTime(created); err != nil {
		return o, fmt.Errorf("parse created_at: %w", err)
	}
	if o.UpdatedAt, err = parseTime(updated); err != nil {
		return o, fmt.Errorf("parse updated_at: %w", err)
	}
	return o, nil
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
	return s.UpsertVehicles(ctx, domain.DefaultInventory()...)
}

// UpsertVehicles inserts vehicles or overwrites the existing rows with the same model.
func (s *Store) UpsertVehicles(ctx context.Context, vehicles ...domain.Vehicle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, v := range vehicles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vehicles (`+vehicleColumns+`) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (model) DO UPDATE SET
				price = excluded.price,
				stock = excluded.stock,
				delivery_days = excluded.delivery_days,
				category = excluded.category,
				fuel_type = excluded.fuel_type
		`, v.Model, v.Price, max(0, v.Stock), v.DeliveryDays, v.Category, v.FuelType)
		if err != nil {
			return fmt.Errorf("upsert vehicle %q: %w", v.Model, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("Catalog updated", "vehicles", len(vehicles))
	return nil
}

// Vehicles returns the whole catalog ordered by model.
func (s *Store) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+vehicleColumns+" FROM vehicles ORDER BY model")
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// FindVehicle looks a vehicle up by model, case-insensitively.
func (s *Store) FindVehicle(ctx context.Context, model string) (*domain.Vehicle, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE model = ?", strings.TrimSpace(model))
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return &v, nil
}

// SearchVehicles ranks the catalog against term in SQL.
// The CASE ladder mirrors domain.SearchRank.
func (s *Store) SearchVehicles(ctx context.Context, term string, limit int) ([]domain.Vehicle, error) {
	term = domain.NormalizeTerm(term)
	if term == "" || limit <= 0 {
		return nil, nil
	}

	escaped := likeEscaper.Replace(term)
	args := []any{term, escaped + "%", "%" + escaped + "%"}

	var words []string
	for _, w := range strings.Fields(term) {
		words = append(words, `lower(model) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(w)+"%")
	}
	wordMatch := strings.Join(words, " OR ")

	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s,
				CASE
					WHEN lower(model) = ? THEN %d
					WHEN lower(model) LIKE ? ESCAPE '\' THEN %d
					WHEN lower(model) LIKE ? ESCAPE '\' THEN %d
					WHEN %s THEN %d
					ELSE %d
				END AS match_rank
			FROM vehicles
		)
		WHERE match_rank < %d
		ORDER BY match_rank, stock DESC, model COLLATE BINARY
		LIMIT ?
	`, vehicleColumns, vehicleColumns,
		domain.RankExact, domain.RankPrefix, domain.RankSubstring,
		wordMatch, domain.RankWord, domain.RankNone, domain.RankNone)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search vehicles: %w", err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListAvailableModels returns in-stock models sorted by name.
func (s *Store) ListAvailableModels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT model FROM vehicles WHERE stock > 0 ORDER BY model COLLATE BINARY")
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// AdjustStock adds delta to the model's stock, flooring at zero.
func (s *Store) AdjustStock(ctx context.Context, model string, delta int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE vehicles SET stock = MAX(0, stock + ?) WHERE model = ?", delta, strings.TrimSpace(model))
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	return nil
}

// CreateOrder records a confirmed order for an in-stock model.
func (s *Store) CreateOrder(ctx context.Context, model, userName, sessionID string) (*domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE model = ?", strings.TrimSpace(model))
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders ("+orderColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		o.ID, o.SessionID, o.UserName, o.Model, o.Price, o.DeliveryDays,
		string(o.Status), formatTime(o.CreatedAt), formatTime(o.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &o, nil
}

// GetOrder returns the order with the given ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", orderID)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// OrdersBySession lists the session's orders, newest first.
func (s *Store) OrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE session_id = ? ORDER BY created_at DESC, rowid DESC",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// SetOrderStatus transitions an order.
func (s *Store) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		string(status), formatTime(s.now()), orderID)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", domain.ErrOrderNotFound, orderID)
	}
	return nil
}
