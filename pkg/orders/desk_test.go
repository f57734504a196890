package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sid = "sess-1"

func TestScenarioA_Propose(t *testing.T) {
	store := newSpy()
	desk := newDesk(store)
	s := domain.NewSession(sid)

	res := desk.Handle(context.Background(), "order a Mustang", s, sid, "")

	assert.Equal(t, domain.StatusAwaitingConfirmation, res.Status)
	assert.Equal(t, domain.IntentNewOrder, res.Intent)
	assert.Equal(t, "Mustang", res.Model)
	assert.Equal(t, int64(2799500), res.Price)
	assert.Equal(t, 5, res.DeliveryDays)
	require.NotNil(t, res.Stock)
	assert.Equal(t, 8, *res.Stock)
	assert.Contains(t, res.Message, "'Confirm order for Mustang'")
	assert.Contains(t, res.Message, "$27,995")

	require.NotNil(t, s.PendingOrder)
	assert.Equal(t, "Mustang", s.PendingOrder.Model)
	assert.Equal(t, "Confirm order for Mustang", s.ConfirmationPhrase)
	assert.Zero(t, store.creates)
}

func TestScenarioB_Confirm(t *testing.T) {
	store := newSpy()
	desk := newDesk(store)
	s := domain.NewSession(sid)
	ctx := context.Background()

	desk.Handle(ctx, "order a Mustang", s, sid, "Ana")
	res := desk.Handle(ctx, "Confirm order for Mustang", s, sid, "Ana")

	assert.Equal(t, domain.StatusConfirmed, res.Status)
	assert.Equal(t, domain.IntentConfirmPendingOrder, res.Intent)
	assert.NotEmpty(t, res.OrderID)
	assert.Contains(t, res.Message, res.OrderID)
	assert.Equal(t, 1, store.creates)
	assert.Nil(t, s.PendingOrder)
	assert.Empty(t, s.ConfirmationPhrase)
	require.Len(t, s.OrderedCars, 1)
	assert.Equal(t, "Mustang", s.OrderedCars[0].Model)
	assert.Equal(t, res.OrderID, s.OrderedCars[0].OrderID)
	assert.Equal(t, 7, store.stock(t, "Mustang"))

	o, err := store.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", o.UserName)
	assert.Equal(t, sid, o.SessionID)
}

func TestScenarioC_CancelWithClarification(t *testing.T) {
	store := newSpy()
	desk := newDesk(store)
	ctx := context.Background()
	s := domain.NewSession(sid)

	mustang, err := store.CreateOrder(ctx, "Mustang", "Ana", sid)
	require.NoError(t, err)
	f150, err := store.CreateOrder(ctx, "F-150", "Ana", sid)
	require.NoError(t, err)

	res := desk.Handle(ctx, "cancel", s, sid, "")
	assert.Equal(t, domain.StatusClarificationNeeded, res.Status)
	assert.True(t, s.AwaitingCancellationClarification)
	require.Len(t, s.CancellationOptions, 2)
	assert.Contains(t, res.Message, "F-150")
	assert.Contains(t, res.Message, "Mustang")

	res = desk.Handle(ctx, "F-150", s, sid, "")
	assert.Equal(t, domain.StatusCancelled, res.Status)
	assert.Equal(t, domain.IntentCancellation, res.Intent)
	assert.Equal(t, f150.ID, res.OrderID)
	assert.False(t, s.AwaitingCancellationClarification)
	assert.Empty(t, s.CancellationOptions)

	got, err := store.GetOrder(ctx, f150.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, got.Status)
	got, err = store.GetOrder(ctx, mustang.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, got.Status)

	assert.Equal(t, 8, store.stock(t, "F-150"), "stock restored by one")
	assert.Equal(t, 8, store.stock(t, "Mustang"))
	assert.Equal(t, 1, store.setStatuses)
}

func TestScenarioD_StatusWithoutOrders(t *testing.T) {
	desk := newDesk(newSpy())
	s := domain.NewSession(sid)

	res := desk.Handle(context.Background(), "did you book my car", s, sid, "")

	assert.Equal(t, domain.StatusNoOrders, res.Status)
	assert.Equal(t, domain.IntentOrderStatus, res.Intent)
}

func TestConfirm_IsIdempotent(t *testing.T) {
	store := newSpy()
	desk := newDesk(store)
	ctx := context.Background()
	s := domain.NewSession(sid)

	desk.Handle(ctx, "order a Mustang", s, sid, "")
	first := desk.Handle(ctx, "Confirm order for Mustang", s, sid, "")
	require.Equal(t, domain.StatusConfirmed, first.Status)

	desk.Handle(ctx, "I want the mustang", s, sid, "")
	second := desk.Handle(ctx, "confirm order for mustang", s, sid, "")

	assert.Equal(t, domain.StatusAlreadyConfirmed, second.Status)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, 1, store.creates)
	assert.Nil(t, s.PendingOrder)
	assert.Len(t, s.OrderedCars, 1)
	assert.Equal(t, 7, store.stock(t, "Mustang"))
}

func TestConfirm_UsesCacheWhenDurableReadsLag(t *testing.T) {
	store := newSpy()
	desk := newDesk(store)
	ctx := context.Background()
	s := domain.NewSession(sid)

	desk.Handle(ctx, "order a Bronco", s, sid, "")
	require.Equal(t, domain.StatusConfirmed, desk.Handle(ctx, "Confirm order for Bronco", s, sid, "").Status)

	store.hideOrders = true
	desk.Handle(ctx, "order a Bronco", s, sid, "")
	res := desk.Handle(ctx, "Confirm order for Bronco", s, sid, "")

	assert.Equal(t, domain.StatusAlreadyConfirmed, res.Status)
	assert.Equal(t, 1, store.creates)
}

func TestConfirm_CreationFailureKeepsProposal(t *testing.T) {
	store := newSpy()
	desk := newDesk(store)
	ctx := context.Background()
	s := domain.NewSession(sid)

	desk.Handle(ctx, "order an Escape", s, sid, "")
	store.failCreate = errUnavailable

	res := desk.Handle(ctx, "Confirm order for Escape", s, sid, "")
	assert.Equal(t, domain.StatusCreationFailed, res.Status)
	require.NotNil(t, s.PendingOrder)
	assert.Equal(t, "Confirm order for Escape", s.ConfirmationPhrase)

	store.failCreate = nil
	res = desk.Handle(ctx, "Confirm order for Escape", s, sid, "")
	assert.Equal(t, domain.StatusConfirmed, res.Status)
	assert.Equal(t, 1, store.creates)
}

func TestConfirm_StockRetry(t *testing.T) {
	t.Run("transient failure recovers", func(t *testing.T) {
		store := newSpy()
		obs := &recordingObserver{}
		desk := newDesk(store, WithObserver(obs))
		ctx := context.Background()
		s := domain.NewSession(sid)

		desk.Handle(ctx, "order a Maverick", s, sid, "")
		store.failAdjust, store.adjustFailures = errUnavailable, 2

		res := desk.Handle(ctx, "Confirm order for Maverick", s, sid, "")
		assert.Equal(t, domain.StatusConfirmed, res.Status)
		assert.Equal(t, 3, store.adjusts)
		assert.Equal(t, 11, store.stock(t, "Maverick"))
		assert.Empty(t, obs.drifts)
	})

	t.Run("persistent failure reports drift", func(t *testing.T) {
		store := newSpy()
		obs := &recordingObserver{}
		desk := newDesk(store, WithObserver(obs))
		ctx := context.Background()
		s := domain.NewSession(sid)

		desk.Handle(ctx, "order a Maverick", s, sid, "")
		store.failAdjust, store.adjustFailures = errUnavailable, 100

		res := desk.Handle(ctx, "Confirm order for Maverick", s, sid, "")
		assert.Equal(t, domain.StatusConfirmed, res.Status, "drift does not fail the confirmation")
		assert.Equal(t, 3, store.adjusts)
		assert.Equal(t, 12, store.stock(t, "Maverick"))
		assert.Equal(t, []string{"Maverick"}, obs.drifts)
		assert.Len(t, s.OrderedCars, 1)
	})
}

func TestPropose_Outcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("no model", func(t *testing.T) {
		s := domain.NewSession(sid)
		res := newDesk(newSpy()).Handle(ctx, "I want to buy a car", s, sid, "")
		assert.Equal(t, domain.StatusNoModel, res.Status)
		assert.False(t, s.HasPending())
	})

	t.Run("not found", func(t *testing.T) {
		s := domain.NewSession(sid)
		s.RememberOrder(domain.CachedOrder{Model: "Ranger"})
		res := newDesk(newSpy()).Handle(ctx, "buy the ranger", s, sid, "")
		assert.Equal(t, domain.StatusNotFound, res.Status)
		assert.False(t, s.HasPending())
	})

	t.Run("out of stock", func(t *testing.T) {
		store := newSpy()
		require.NoError(t, store.AdjustStock(ctx, "Bronco", -100))
		s := domain.NewSession(sid)
		s.RememberOrder(domain.CachedOrder{Model: "Bronco"})

		res := newDesk(store).Handle(ctx, "i want another bronco", s, sid, "")
		assert.Equal(t, domain.StatusOutOfStock, res.Status)
		assert.Equal(t, "Bronco", res.Model)
		assert.False(t, s.HasPending())
	})

	t.Run("new request replaces stale proposal", func(t *testing.T) {
		s := domain.NewSession(sid)
		desk := newDesk(newSpy())
		desk.Handle(ctx, "order a Mustang", s, sid, "")
		res := desk.Handle(ctx, "actually buy the escape", s, sid, "")
		assert.Equal(t, domain.StatusAwaitingConfirmation, res.Status)
		assert.Equal(t, "Confirm order for Escape", s.ConfirmationPhrase)

		res = desk.Handle(ctx, "buy something nice", s, sid, "")
		assert.Equal(t, domain.StatusNoModel, res.Status)
		assert.False(t, s.HasPending(), "stale proposal cleared even when nothing replaces it")
	})
}

func TestGenericYes_QuotesPhrase(t *testing.T) {
	desk := newDesk(newSpy())
	ctx := context.Background()
	s := domain.NewSession(sid)

	desk.Handle(ctx, "order a Mustang", s, sid, "")
	res := desk.Handle(ctx, "yes", s, sid, "")

	assert.Equal(t, domain.StatusClarificationNeeded, res.Status)
	assert.Equal(t, domain.IntentGenericYesOnPending, res.Intent)
	assert.Contains(t, res.Message, "'Confirm order for Mustang'")
	assert.True(t, s.HasPending())
}

func TestConfirmationThreshold(t *testing.T) {
	ctx := context.Background()

	store := newSpy()
	desk := newDesk(store)
	s := domain.NewSession(sid)
	desk.Handle(ctx, "order a Mustang", s, sid, "")
	res := desk.Handle(ctx, "confirm orber for musxxxx", s, sid, "")
	assert.Equal(t, domain.StatusConfirmed, res.Status, "similarity 0.80 confirms")

	store = newSpy()
	desk = newDesk(store)
	s = domain.NewSession(sid)
	desk.Handle(ctx, "order a Mustang", s, sid, "")
	res = desk.Handle(ctx, "confirm orber for muxxxxx", s, sid, "")
	assert.Equal(t, domain.StatusClarificationNeeded, res.Status, "similarity 0.76 asks again")
	assert.Zero(t, store.creates)
}

func TestClose_ClearsTransientState(t *testing.T) {
	desk := newDesk(newSpy())
	s := domain.NewSession(sid)
	s.Propose(domain.PendingOrder{Model: "Mustang"})
	s.AwaitCancellation([]domain.CancellationOption{{Model: "Bronco"}})
	s.RememberOrder(domain.CachedOrder{Model: "Bronco"})

	res := desk.Handle(context.Background(), "that's it, thanks", s, sid, "")

	assert.Equal(t, domain.StatusConversationComplete, res.Status)
	assert.False(t, s.HasPending())
	assert.Empty(t, s.ConfirmationPhrase)
	assert.False(t, s.AwaitingCancellationClarification)
	assert.Empty(t, s.CancellationOptions)
	assert.Len(t, s.OrderedCars, 1, "the order cache survives")
}

func TestUnclear(t *testing.T) {
	s := domain.NewSession(sid)
	res := newDesk(newSpy()).Handle(context.Background(), "hello there", s, sid, "")
	assert.Equal(t, domain.StatusUnclear, res.Status)
	assert.Equal(t, domain.IntentUnclear, res.Intent)
}

func TestHandle_RejectsOversizedInput(t *testing.T) {
	store := newSpy()
	s := domain.NewSession(sid)
	s.Propose(domain.PendingOrder{Model: "Mustang"})

	res := newDesk(store).Handle(context.Background(), strings.Repeat("a", MaxUtteranceBytes+1), s, sid, "")

	assert.Equal(t, domain.StatusUnclear, res.Status)
	assert.True(t, s.HasPending(), "rejected input does not change state")
}

func TestHandle_CollaboratorFailureResetsSession(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		utterance string
		awaiting  bool
		inject    func(*spyStore)
	}{
		{"list models", "order a Mustang", true, func(s *spyStore) { s.failList = errUnavailable }},
		{"search", "order a Bronco", false, func(s *spyStore) { s.failSearch = errUnavailable }},
		{"existing orders", "Confirm order for Mustang", true, func(s *spyStore) { s.failOrders = errUnavailable }},
		{"status", "show my orders", true, func(s *spyStore) { s.failOrders = errUnavailable }},
		{"cancel", "cancel", true, func(s *spyStore) { s.failOrders = errUnavailable }},
		{"panic", "order a Bronco", false, func(s *spyStore) { s.panicOnSearch = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newSpy()
			desk := newDesk(store)
			s := domain.NewSession(sid)
			s.Propose(domain.PendingOrder{Model: "Mustang", Price: 2799500, DeliveryDays: 5, Stock: 8})
			if tc.awaiting {
				s.AwaitCancellation([]domain.CancellationOption{{Model: "Escape", Source: domain.SourceCache}})
			}

			tc.inject(store)
			res := desk.Handle(ctx, tc.utterance, s, sid, "")

			assert.Equal(t, domain.StatusError, res.Status)
			assert.False(t, s.HasPending())
			assert.Empty(t, s.ConfirmationPhrase)
			assert.False(t, s.AwaitingCancellationClarification)
			assert.Empty(t, s.CancellationOptions)
		})
	}
}

func TestHandle_ClarificationTakesModelsBeforeNewOrder(t *testing.T) {
	store := newSpy()
	store.failSearch = errUnavailable
	s := domain.NewSession(sid)
	s.AwaitCancellation([]domain.CancellationOption{{Model: "Escape", Source: domain.SourceCache}})

	res := newDesk(store).Handle(context.Background(), "order a Bronco", s, sid, "")

	assert.Equal(t, domain.IntentCancellation, res.Intent)
	assert.Equal(t, domain.StatusNoOrders, res.Status)
	assert.False(t, s.AwaitingCancellationClarification)
}

func TestHandle_Defaults(t *testing.T) {
	store := newSpy()
	desk := newDesk(store)
	ctx := context.Background()

	s := domain.NewSession("")
	desk.Handle(ctx, "order a Mustang", s, "", "")
	require.NotEmpty(t, s.ID, "an anonymous session gets an identifier")
	res := desk.Handle(ctx, "Confirm order for Mustang", s, "", "")
	require.Equal(t, domain.StatusConfirmed, res.Status)

	o, err := store.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUserName, o.UserName)
	assert.Equal(t, s.ID, o.SessionID)

	assert.Equal(t, domain.StatusError, desk.Handle(ctx, "hi", nil, sid, "").Status)
}

func TestHandle_NotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	desk := newDesk(newSpy(), WithObserver(obs))
	s := domain.NewSession(sid)

	desk.Handle(context.Background(), "order a Mustang", s, sid, "")
	desk.Handle(context.Background(), "bye", s, sid, "")

	assert.Equal(t, []domain.Intent{domain.IntentNewOrder, domain.IntentConversationClose}, obs.intents)
	require.Len(t, obs.results, 2)
	assert.Equal(t, domain.StatusAwaitingConfirmation, obs.results[0].Status)
	assert.Equal(t, domain.IntentConversationClose, obs.results[1].Intent)
}
