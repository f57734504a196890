package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID)
		session.UserName = "Ana"
		session.Propose(domain.PendingOrder{Model: "Mustang", Price: 2799500, DeliveryDays: 5, Stock: 8})
		session.RememberOrder(domain.CachedOrder{OrderID: "o-1", Model: "Bronco", Price: 3749000, DeliveryDays: 12})

		err := store.Save(ctx, sessionID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "Ana", loaded.UserName)
		require.NotNil(t, loaded.PendingOrder)
		assert.Equal(t, *session.PendingOrder, *loaded.PendingOrder)
		assert.Equal(t, session.ConfirmationPhrase, loaded.ConfirmationPhrase)
		assert.Equal(t, session.OrderedCars, loaded.OrderedCars)
		assert.NoError(t, loaded.Validate())
	})

	t.Run("Save isolates caller mutations", func(t *testing.T) {
		session := domain.NewSession(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, session))

		session.AwaitCancellation([]domain.CancellationOption{{Model: "Escape", Source: domain.SourceCache}})

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.False(t, loaded.AwaitingCancellationClarification)
		assert.Empty(t, loaded.CancellationOptions)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSession(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession(id1))
		_ = store.Save(ctx, id2, domain.NewSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunDurableStoreContract verifies a DurableStore implementation. newStore must return a
// fresh store holding exactly domain.DefaultInventory and no orders; it is called once per
// subtest.
func RunDurableStoreContract(t *testing.T, newStore func(t *testing.T) DurableStore) {
	ctx := context.Background()

	t.Run("FindVehicle is case-insensitive", func(t *testing.T) {
		store := newStore(t)

		v, err := store.FindVehicle(ctx, "  mUsTaNg ")
		require.NoError(t, err)
		assert.Equal(t, "Mustang", v.Model)
		assert.Equal(t, int64(2799500), v.Price)
		assert.Equal(t, 8, v.Stock)
		assert.Equal(t, 5, v.DeliveryDays)

		_, err = store.FindVehicle(ctx, "Model T")
		assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
	})

	t.Run("SearchVehicles ranking", func(t *testing.T) {
		store := newStore(t)

		cases := []struct {
			term  string
			limit int
			want  []string
		}{
			{"explorer", 5, []string{"Explorer", "Explorer EV"}},
			{"F-150", 5, []string{"F-150", "F-150 Lightning"}},
			{"explorer", 1, []string{"Explorer"}},
			{"lightning", 5, []string{"F-150 Lightning"}},
			{"ford bronco", 5, []string{"Bronco"}},
			{"e", 10, []string{"Escape", "Explorer", "Explorer EV", "Maverick"}},
			{"tesla", 5, nil},
			{"   ", 5, nil},
		}
		for _, tc := range cases {
			got, err := store.SearchVehicles(ctx, tc.term, tc.limit)
			require.NoError(t, err, tc.term)
			var names []string
			for _, v := range got {
				names = append(names, v.Model)
			}
			assert.Equal(t, tc.want, names, "term %q limit %d", tc.term, tc.limit)
		}
	})

	t.Run("ListAvailableModels and AdjustStock", func(t *testing.T) {
		store := newStore(t)

		models, err := store.ListAvailableModels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Bronco", "Escape", "Explorer", "Explorer EV",
			"F-150", "F-150 Lightning", "Maverick", "Mustang",
		}, models)

		require.NoError(t, store.AdjustStock(ctx, "bronco", -100))
		v, err := store.FindVehicle(ctx, "Bronco")
		require.NoError(t, err)
		assert.Equal(t, 0, v.Stock, "stock floors at zero")

		models, err = store.ListAvailableModels(ctx)
		require.NoError(t, err)
		assert.NotContains(t, models, "Bronco")

		require.NoError(t, store.AdjustStock(ctx, "Bronco", 2))
		v, err = store.FindVehicle(ctx, "Bronco")
		require.NoError(t, err)
		assert.Equal(t, 2, v.Stock)

		assert.ErrorIs(t, store.AdjustStock(ctx, "Model T", 1), domain.ErrVehicleNotFound)
	})

	t.Run("CreateOrder", func(t *testing.T) {
		store := newStore(t)

		o, err := store.CreateOrder(ctx, "mustang", "Ana", "sess-1")
		require.NoError(t, err)
		assert.NotEmpty(t, o.ID)
		assert.Equal(t, "Mustang", o.Model, "canonical model name")
		assert.Equal(t, int64(2799500), o.Price)
		assert.Equal(t, 5, o.DeliveryDays)
		assert.Equal(t, domain.OrderConfirmed, o.Status)
		assert.Equal(t, "Ana", o.UserName)
		assert.Equal(t, "sess-1", o.SessionID)

		v, err := store.FindVehicle(ctx, "Mustang")
		require.NoError(t, err)
		assert.Equal(t, 8, v.Stock, "creating an order does not touch stock")

		got, err := store.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
		assert.Equal(t, domain.OrderConfirmed, got.Status)

		_, err = store.CreateOrder(ctx, "Model T", "Ana", "sess-1")
		assert.ErrorIs(t, err, domain.ErrVehicleNotFound)

		require.NoError(t, store.AdjustStock(ctx, "Escape", -100))
		_, err = store.CreateOrder(ctx, "Escape", "Ana", "sess-1")
		assert.ErrorIs(t, err, domain.ErrOutOfStock)
	})

	t.Run("OrdersBySession newest first", func(t *testing.T) {
		store := newStore(t)

		first, err := store.CreateOrder(ctx, "Mustang", "Ana", "sess-a")
		require.NoError(t, err)
		second, err := store.CreateOrder(ctx, "Bronco", "Ana", "sess-a")
		require.NoError(t, err)
		_, err = store.CreateOrder(ctx, "Escape", "Bo", "sess-b")
		require.NoError(t, err)

		orders, err := store.OrdersBySession(ctx, "sess-a")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, second.ID, orders[0].ID)
		assert.Equal(t, first.ID, orders[1].ID)

		orders, err = store.OrdersBySession(ctx, "sess-none")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("SetOrderStatus", func(t *testing.T) {
		store := newStore(t)

		o, err := store.CreateOrder(ctx, "F-150", "Ana", "sess-1")
		require.NoError(t, err)

		require.NoError(t, store.SetOrderStatus(ctx, o.ID, domain.OrderCancelled))
		got, err := store.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderCancelled, got.Status)

		orders, err := store.OrdersBySession(ctx, "sess-1")
		require.NoError(t, err)
		require.Len(t, orders, 1, "cancelled orders are kept")

		assert.ErrorIs(t, store.SetOrderStatus(ctx, "missing", domain.OrderCancelled), domain.ErrOrderNotFound)
		_, err = store.GetOrder(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

// RunCatalogWriterContract verifies a CatalogWriter. newStore follows the same rules as in
// RunDurableStoreContract.
func RunCatalogWriterContract(t *testing.T, newStore func(t *testing.T) ManagedStore) {
	ctx := context.Background()

	t.Run("Vehicles lists the whole catalog by model", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AdjustStock(ctx, "Bronco", -100))

		all, err := store.Vehicles(ctx)
		require.NoError(t, err)
		require.Len(t, all, len(domain.DefaultInventory()))
		assert.Equal(t, "Bronco", all[0].Model, "out of stock entries are listed")
		assert.Equal(t, 0, all[0].Stock)
		assert.Equal(t, "Mustang", all[len(all)-1].Model)
	})

	t.Run("UpsertVehicles", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.UpsertVehicles(ctx,
			domain.Vehicle{Model: "mustang", Price: 3000000, Stock: 2, DeliveryDays: 3, Category: "Sports Car", FuelType: "Gas"},
			domain.Vehicle{Model: "Ranger", Price: 3300000, Stock: -4, DeliveryDays: 10, Category: "Truck", FuelType: "Diesel"},
		))

		v, err := store.FindVehicle(ctx, "Mustang")
		require.NoError(t, err)
		assert.Equal(t, "Mustang", v.Model, "existing model name is kept")
		assert.Equal(t, int64(3000000), v.Price)
		assert.Equal(t, 2, v.Stock)

		v, err = store.FindVehicle(ctx, "ranger")
		require.NoError(t, err)
		assert.Equal(t, 0, v.Stock, "negative stock is clamped")
		assert.Equal(t, "Diesel", v.FuelType)

		all, err := store.Vehicles(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(domain.DefaultInventory())+1)

		models, err := store.ListAvailableModels(ctx)
		require.NoError(t, err)
		assert.NotContains(t, models, "Ranger")
	})
}
