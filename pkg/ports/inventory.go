package ports

import (
	"context"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// Inventory is the read side of the vehicle catalog plus the stock counter.
type Inventory interface {
	// FindVehicle looks a vehicle up by model, case-insensitively.
	// Returns domain.ErrVehicleNotFound when no model matches.
	FindVehicle(ctx context.Context, model string) (*domain.Vehicle, error)

	// SearchVehicles returns at most limit vehicles matching term, best match first.
	// Exact matches rank above prefix matches, prefix above substring, substring above
	// single-word matches. Ties are broken by stock (descending) then model name.
	// An empty term yields no results.
	SearchVehicles(ctx context.Context, term string, limit int) ([]domain.Vehicle, error)

	// ListAvailableModels returns the models with stock > 0, ordered by name.
	ListAvailableModels(ctx context.Context) ([]string, error)

	// AdjustStock adds delta to the model's stock, never going below zero.
	AdjustStock(ctx context.Context, model string, delta int) error
}

// OrderBook records orders. Orders are never deleted, only transitioned.
type OrderBook interface {
	// CreateOrder records a confirmed order for model. It refuses unknown models
	// (domain.ErrVehicleNotFound) and models without stock (domain.ErrOutOfStock).
	// Stock is not decremented.
	CreateOrder(ctx context.Context, model, userName, sessionID string) (*domain.Order, error)

	// GetOrder returns domain.ErrOrderNotFound for unknown IDs.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)

	// OrdersBySession returns every order of the session, newest first.
	OrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error)

	// SetOrderStatus transitions an order. Returns domain.ErrOrderNotFound for unknown IDs.
	SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// DurableStore is the system of record the order desk talks to.
type DurableStore interface {
	Inventory
	OrderBook
}

// Seeder is implemented by stores able to load the default catalog.
type Seeder interface {
	// Seed inserts domain.DefaultInventory when the catalog is empty.
	Seed(ctx context.Context) error
}

// HealthChecker is implemented by stores able to report liveness.
type HealthChecker interface {
	// Health returns the number of catalog entries, or an error when the store is unreachable.
	Health(ctx context.Context) (int, error)
}

// CatalogWriter is implemented by stores whose catalog can be listed and replaced
// by an operator, e.g. from a vehicles YAML file.
type CatalogWriter interface {
	// Vehicles returns every catalog entry, including those out of stock.
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)

	// UpsertVehicles inserts vehicles or overwrites the entries with the same model.
	// Negative stock is stored as zero.
	UpsertVehicles(ctx context.Context, vehicles ...domain.Vehicle) error
}

// ManagedStore is a DurableStore whose catalog an operator can maintain.
type ManagedStore interface {
	DurableStore
	CatalogWriter
}
