package postgres_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/orderdesk/pkg/adapters/postgres"
	"github.com/aretw0/orderdesk/pkg/ports"
)

// openTestStore connects to TEST_DATABASE_URL and empties the tables.
func openTestStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}
	if testing.Short() {
		t.Skip("short")
	}

	ctx := context.Background()
	s, err := postgres.Open(ctx, dsn)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.Seed(ctx))
	return s
}

func TestPostgresStore_Contract(t *testing.T) {
	ports.RunDurableStoreContract(t, func(t *testing.T) ports.DurableStore {
		return openTestStore(t)
	})
}

func TestPostgresStore_CatalogWriter(t *testing.T) {
	ports.RunCatalogWriterContract(t, func(t *testing.T) ports.ManagedStore {
		return openTestStore(t)
	})
}
