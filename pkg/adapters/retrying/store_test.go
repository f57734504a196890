package retrying_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/orderdesk/pkg/adapters/memory"
	"github.com/aretw0/orderdesk/pkg/adapters/retrying"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/ports"
)

var errFlaky = errors.New("connection reset")

// flakyStore fails the first n calls of the overridden methods.
type flakyStore struct {
	*memory.Catalog
	failures int
	calls    int
	creates  int
}

func (f *flakyStore) trip() error {
	f.calls++
	if f.calls <= f.failures {
		return errFlaky
	}
	return nil
}

func (f *flakyStore) ListAvailableModels(ctx context.Context) ([]string, error) {
	if err := f.trip(); err != nil {
		return nil, err
	}
	return f.Catalog.ListAvailableModels(ctx)
}

func (f *flakyStore) FindVehicle(ctx context.Context, model string) (*domain.Vehicle, error) {
	if err := f.trip(); err != nil {
		return nil, err
	}
	return f.Catalog.FindVehicle(ctx, model)
}

func (f *flakyStore) CreateOrder(ctx context.Context, model, userName, sessionID string) (*domain.Order, error) {
	f.creates++
	if err := f.trip(); err != nil {
		return nil, err
	}
	return f.Catalog.CreateOrder(ctx, model, userName, sessionID)
}

func newFlaky(failures int) *flakyStore {
	return &flakyStore{Catalog: memory.NewCatalog(domain.DefaultInventory()...), failures: failures}
}

func TestRetryingStore_Contract(t *testing.T) {
	ports.RunDurableStoreContract(t, func(t *testing.T) ports.DurableStore {
		return retrying.New(memory.NewCatalog(domain.DefaultInventory()...), retrying.WithBase(time.Millisecond))
	})
}

func TestRetryingStore_CatalogWriter(t *testing.T) {
	ports.RunCatalogWriterContract(t, func(t *testing.T) ports.ManagedStore {
		return retrying.New(memory.NewCatalog(domain.DefaultInventory()...), retrying.WithBase(time.Millisecond))
	})
}

func TestRetryingStore_RetriesTransientErrors(t *testing.T) {
	flaky := newFlaky(2)
	s := retrying.New(flaky, retrying.WithAttempts(3), retrying.WithBase(time.Millisecond))

	models, err := s.ListAvailableModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, models, 8)
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryingStore_GivesUp(t *testing.T) {
	flaky := newFlaky(5)
	s := retrying.New(flaky, retrying.WithAttempts(2), retrying.WithBase(time.Millisecond))

	_, err := s.ListAvailableModels(context.Background())
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, flaky.calls)
}

func TestRetryingStore_DoesNotRetrySentinels(t *testing.T) {
	flaky := newFlaky(0)
	s := retrying.New(flaky, retrying.WithAttempts(5), retrying.WithBase(time.Millisecond))

	_, err := s.FindVehicle(context.Background(), "Model T")
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
	assert.Equal(t, 1, flaky.calls)
}

func TestRetryingStore_CreateOrderIsNotRetried(t *testing.T) {
	flaky := newFlaky(1)
	s := retrying.New(flaky, retrying.WithAttempts(5), retrying.WithBase(time.Millisecond))

	_, err := s.CreateOrder(context.Background(), "Mustang", "Ana", "s1")
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, flaky.creates)
	assert.Empty(t, flaky.Orders())
}

func TestRetryingStore_ForwardsSeedAndHealth(t *testing.T) {
	ctx := context.Background()
	s := retrying.New(memory.NewCatalog())

	require.NoError(t, s.Seed(ctx))
	n, err := s.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
