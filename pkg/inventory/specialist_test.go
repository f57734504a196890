package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/orderdesk/pkg/adapters/memory"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpecialist(t *testing.T) (*inventory.Specialist, *memory.Catalog) {
	t.Helper()
	catalog := memory.NewCatalog(domain.DefaultInventory()...)
	return inventory.New(catalog), catalog
}

func TestCleanQuery(t *testing.T) {
	assert.Equal(t, "mustang", inventory.CleanQuery("Is the Mustang available?"))
	assert.Equal(t, "explorer ev", inventory.CleanQuery("What's the price of the Explorer EV?"))
	assert.Equal(t, "maverick", inventory.CleanQuery("When can I get a Maverick"))
	assert.Equal(t, "", inventory.CleanQuery("what do you have?"))
}

func TestDetectQueryType(t *testing.T) {
	tests := map[string]inventory.QueryType{
		"is the mustang available":      inventory.QueryAvailability,
		"how many broncos are in stock": inventory.QueryAvailability,
		"how much is the escape":        inventory.QueryPrice,
		"quantity of maverick":          inventory.QueryQuantity,
		"when will the f-150 arrive":    inventory.QueryDelivery,
		"tell me about the explorer":    inventory.QueryGeneral,
	}
	for in, want := range tests {
		assert.Equal(t, want, inventory.DetectQueryType(in), in)
	}
}

func TestAnswer(t *testing.T) {
	ctx := context.Background()
	s, _ := newSpecialist(t)

	tests := []struct {
		name    string
		query   string
		model   string
		message string
	}{
		{"availability", "Is the Mustang available?", "Mustang", "Yes, we have the Mustang in stock! We currently have 8 units available."},
		{"price", "What's the price of the Explorer EV?", "Explorer EV", "The Explorer EV is priced at $48,500. We have 3 units available."},
		{"quantity", "quantity of maverick", "Maverick", "We have 12 Maverick units available."},
		{"delivery", "When can I get a Maverick", "Maverick", "The estimated delivery time for the Maverick is 5 days."},
		{"general with more matches", "explorer", "Explorer", "The Explorer is available! Price: $39,625, Stock: 5 units, Delivery: 9 days. Would you like me to check other similar models?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Answer(ctx, tt.query)
			assert.Equal(t, domain.StatusFound, res.Status)
			assert.Equal(t, tt.model, res.Model)
			assert.Equal(t, tt.message, res.Message)
			require.NotNil(t, res.Stock)
		})
	}
}

func TestAnswer_OutOfStock(t *testing.T) {
	ctx := context.Background()
	s, catalog := newSpecialist(t)
	require.NoError(t, catalog.AdjustStock(ctx, "Bronco", -100))

	res := s.Answer(ctx, "bronco")
	assert.Equal(t, domain.StatusFound, res.Status)
	assert.Equal(t, "The Bronco is currently out of stock.", res.Message)
	assert.Equal(t, 0, *res.Stock)

	res = s.Answer(ctx, "how much is the bronco")
	assert.Equal(t, "The Bronco is currently out of stock. The price is $37,490.", res.Message)
}

func TestAnswer_NoQuery(t *testing.T) {
	s, _ := newSpecialist(t)

	res := s.Answer(context.Background(), "what do you have?")

	assert.Equal(t, domain.StatusNoQuery, res.Status)
	assert.Len(t, res.AvailableModels, 8)
	assert.Contains(t, res.Message, "Available models include: Bronco, Escape")
}

func TestAnswer_NotFoundSuggests(t *testing.T) {
	s, _ := newSpecialist(t)

	res := s.Answer(context.Background(), "mustnag")

	assert.Equal(t, domain.StatusNotFound, res.Status)
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, "Mustang", res.Suggestions[0])
	assert.Contains(t, res.Message, "Did you mean: Mustang")
	assert.Len(t, res.AvailableModels, 8)
}

func TestDetailsAndAvailability(t *testing.T) {
	ctx := context.Background()
	s, catalog := newSpecialist(t)

	res := s.Details(ctx, "explorer ev")
	assert.Equal(t, domain.StatusFound, res.Status)
	assert.Equal(t, "Explorer EV", res.Model)

	assert.Equal(t, domain.StatusNotFound, s.Details(ctx, "Model T").Status)

	res = s.Availability(ctx, "bronco")
	assert.Equal(t, "Available: Bronco", res.Message)

	require.NoError(t, catalog.AdjustStock(ctx, "Bronco", -100))
	res = s.Availability(ctx, "bronco")
	assert.Equal(t, "Out of stock: Bronco", res.Message)

	assert.Equal(t, domain.StatusNotFound, s.Availability(ctx, "Model T").Status)
}

type brokenInventory struct{ *memory.Catalog }

func (brokenInventory) SearchVehicles(context.Context, string, int) ([]domain.Vehicle, error) {
	return nil, errors.New("connection refused")
}

func TestAnswer_StoreFailure(t *testing.T) {
	s := inventory.New(brokenInventory{memory.NewCatalog(domain.DefaultInventory()...)})
	res := s.Answer(context.Background(), "mustang")
	assert.Equal(t, domain.StatusError, res.Status)
}
