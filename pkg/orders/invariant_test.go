package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/stretchr/testify/require"
)

// TestHandle_PendingInvariantHolds drives random conversations, with random store failures,
// and checks after every turn that a pending order and its phrase are set or cleared together.
func TestHandle_PendingInvariantHolds(t *testing.T) {
	utterances := []string{
		"order a Mustang", "I want the bronco", "buy an escape", "get me a tesla",
		"Confirm order for Mustang", "Confirm order for Bronco", "confirm order for escape",
		"yes", "go ahead", "cancel", "cancel the bronco", "mustang", "escape",
		"my order status", "did you book my car", "thanks", "never mind", "hello",
	}

	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*31))
			store := newSpy()
			desk := newDesk(store)
			ctx := context.Background()
			s := domain.NewSession(sid)

			for turn := 0; turn < 60; turn++ {
				store.failCreate, store.failOrders, store.failSetStatus = nil, nil, nil
				switch rng.IntN(10) {
				case 0:
					store.failCreate = errUnavailable
				case 1:
					store.failOrders = errUnavailable
				case 2:
					store.failSetStatus = errUnavailable
				}

				u := utterances[rng.IntN(len(utterances))]
				res := desk.Handle(ctx, u, s, sid, "")

				require.NoError(t, s.Validate(), "turn %d %q -> %s", turn, u, res.Status)
				require.NotEmpty(t, res.Status)
				if !s.AwaitingCancellationClarification {
					require.Empty(t, s.CancellationOptions, "turn %d %q", turn, u)
				}
			}
		})
	}
}

func TestHandle_RepairsInconsistentSession(t *testing.T) {
	s := domain.NewSession(sid)
	s.ConfirmationPhrase = "Confirm order for Mustang"

	newDesk(newSpy()).Handle(context.Background(), "hello", s, sid, "")

	require.NoError(t, s.Validate())
	require.Empty(t, s.ConfirmationPhrase)
}
