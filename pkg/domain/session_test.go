package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ProposeAndClear(t *testing.T) {
	s := NewSession("sess-1")
	require.NoError(t, s.Validate())
	assert.False(t, s.HasPending())

	phrase := s.Propose(PendingOrder{Model: "Mustang", Price: 2799500, DeliveryDays: 5, Stock: 8})
	assert.Equal(t, "Confirm order for Mustang", phrase)
	assert.Equal(t, phrase, s.ConfirmationPhrase)
	assert.True(t, s.HasPending())
	require.NoError(t, s.Validate())

	s.ClearPending()
	assert.Nil(t, s.PendingOrder)
	assert.Empty(t, s.ConfirmationPhrase)
	require.NoError(t, s.Validate())
}

func TestSession_ValidateDetectsDrift(t *testing.T) {
	s := NewSession("sess-1")
	s.ConfirmationPhrase = "Confirm order for Bronco"
	assert.Error(t, s.Validate())

	s = NewSession("sess-2")
	s.PendingOrder = &PendingOrder{Model: "Bronco"}
	assert.Error(t, s.Validate())
}

func TestSession_Cancellation(t *testing.T) {
	s := NewSession("sess-1")
	opts := []CancellationOption{
		{OrderID: "o-1", Model: "Mustang", Price: 2799500, Source: SourceDurable},
		{Model: "Bronco", Price: 3749000, Source: SourceCache},
	}
	s.AwaitCancellation(opts)
	opts[0].Model = "mutated"

	assert.True(t, s.AwaitingCancellationClarification)
	require.Len(t, s.CancellationOptions, 2)
	assert.Equal(t, "Mustang", s.CancellationOptions[0].Model, "options must be copied")

	s.Propose(PendingOrder{Model: "Escape"})
	s.Reset()
	assert.False(t, s.AwaitingCancellationClarification)
	assert.Nil(t, s.CancellationOptions)
	assert.False(t, s.HasPending())
}

func TestSession_OrderCache(t *testing.T) {
	s := NewSession("sess-1")
	s.RememberOrder(CachedOrder{OrderID: "o-1", Model: "Mustang"})
	s.RememberOrder(CachedOrder{OrderID: "o-2", Model: "Bronco"})
	s.RememberOrder(CachedOrder{OrderID: "o-3", Model: "mustang"})

	c, ok := s.CachedOrderFor("MUSTANG")
	require.True(t, ok)
	assert.Equal(t, "o-1", c.OrderID)

	s.ForgetOrder("Mustang", "o-3")
	require.Len(t, s.OrderedCars, 2)

	s.ForgetOrder("mustang", "")
	require.Len(t, s.OrderedCars, 1)
	assert.Equal(t, "Bronco", s.OrderedCars[0].Model)

	s.ForgetOrder("Bronco", "")
	assert.Nil(t, s.OrderedCars)
	_, ok = s.CachedOrderFor("Bronco")
	assert.False(t, ok)
}

func TestSession_SnapshotIsDeep(t *testing.T) {
	s := NewSession("sess-1")
	s.Propose(PendingOrder{Model: "Mustang", Price: 1})
	s.AwaitCancellation([]CancellationOption{{Model: "Bronco"}})
	s.RememberOrder(CachedOrder{Model: "Escape"})

	cp := s.Snapshot()
	cp.PendingOrder.Price = 2
	cp.CancellationOptions[0].Model = "x"
	cp.OrderedCars[0].Model = "y"

	assert.Equal(t, int64(1), s.PendingOrder.Price)
	assert.Equal(t, "Bronco", s.CancellationOptions[0].Model)
	assert.Equal(t, "Escape", s.OrderedCars[0].Model)

	var nilSession *Session
	assert.Nil(t, nilSession.Snapshot())
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := NewSession("sess-1")
	s.UserName = "Ana"
	s.Propose(PendingOrder{Model: "F-150", Price: 3519000, DeliveryDays: 8, Stock: 7})
	s.RememberOrder(CachedOrder{OrderID: "o-1", Model: "Bronco", Price: 3749000, DeliveryDays: 12})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pending_order_confirmation_phrase":"Confirm order for F-150"`)

	var back Session
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.PendingOrder, back.PendingOrder)
	assert.Equal(t, s.OrderedCars, back.OrderedCars)
	require.NoError(t, back.Validate())
}
