package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// Catalog implements ports.DurableStore in memory.
// Orders keep their insertion sequence so that newest-first listing is stable
// even when timestamps collide. Safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	vehicles []domain.Vehicle
	orders   []domain.Order
	now      func() time.Time
}

// NewCatalog creates a catalog holding the given vehicles and no orders.
func NewCatalog(vehicles ...domain.Vehicle) *Catalog {
	return &Catalog{
		vehicles: slices.Clone(vehicles),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Seed loads domain.DefaultInventory when the catalog is empty.
func (c *Catalog) Seed(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.vehicles) == 0 {
		c.vehicles = domain.DefaultInventory()
	}
	return nil
}

// Vehicles returns a copy of the whole catalog ordered by model.
func (c *Catalog) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := slices.Clone(c.vehicles)
	slices.SortFunc(out, func(a, b domain.Vehicle) int { return strings.Compare(a.Model, b.Model) })
	return out, nil
}

// UpsertVehicles inserts vehicles or overwrites the entries with the same model.
func (c *Catalog) UpsertVehicles(ctx context.Context, vehicles ...domain.Vehicle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range vehicles {
		v.Stock = max(0, v.Stock)
		if i := c.index(v.Model); i >= 0 {
			v.Model = c.vehicles[i].Model
			c.vehicles[i] = v
			continue
		}
		c.vehicles = append(c.vehicles, v)
	}
	return nil
}

func (c *Catalog) index(model string) int {
	return slices.IndexFunc(c.vehicles, func(v domain.Vehicle) bool {
		return domain.SameModel(v.Model, model)
	})
}

// FindVehicle looks a vehicle up by model, case-insensitively.
func (c *Catalog) FindVehicle(ctx context.Context, model string) (*domain.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.index(model)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	v := c.vehicles[i]
	return &v, nil
}

// SearchVehicles ranks the catalog against term.
func (c *Catalog) SearchVehicles(ctx context.Context, term string, limit int) ([]domain.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.RankVehicles(c.vehicles, term, limit), nil
}

// ListAvailableModels returns in-stock models sorted by name.
func (c *Catalog) ListAvailableModels(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var models []string
	for _, v := range c.vehicles {
		if v.InStock() {
			models = append(models, v.Model)
		}
	}
	slices.Sort(models)
	return models, nil
}

// AdjustStock adds delta to the model's stock, flooring at zero.
func (c *Catalog) AdjustStock(ctx context.Context, model string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(model)
	if i < 0 {
		return fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	c.vehicles[i].Stock = max(0, c.vehicles[i].Stock+delta)
	return nil
}

// CreateOrder records a confirmed order for an in-stock model.
func (c *Catalog) CreateOrder(ctx context.Context, model, userName, sessionID string) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(model)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, model)
	}
	v := c.vehicles[i]
	if !v.InStock() {
		return nil, fmt.Errorf("%w: %q", domain.ErrOutOfStock, v.Model)
	}

	now := c.now()
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
	c.orders = append(c.orders, o)
	return &o, nil
}

// GetOrder returns a copy of the order.
func (c *Catalog) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, o := range c.orders {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrOrderNotFound, orderID)
}

// OrdersBySession lists the session's orders, newest first.
func (c *Catalog) OrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Order
	for i := len(c.orders) - 1; i >= 0; i-- {
		if c.orders[i].SessionID == sessionID {
			out = append(out, c.orders[i])
		}
	}
	return out, nil
}

// SetOrderStatus transitions an order.
func (c *Catalog) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.orders {
		if c.orders[i].ID == orderID {
			c.orders[i].Status = status
			c.orders[i].UpdatedAt = c.now()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrOrderNotFound, orderID)
}

// Orders returns every order of every session, oldest first.
func (c *Catalog) Orders() []domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.orders)
}

// Health reports the number of catalog entries.
func (c *Catalog) Health(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vehicles), nil
}
