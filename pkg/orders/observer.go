package orders

import (
	"context"
	"time"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// Observer receives notifications about desk activity. Implementations must be safe
// for concurrent use; the desk calls them synchronously.
type Observer interface {
	// OnIntent is called once the utterance has been classified.
	OnIntent(ctx context.Context, sessionID string, in domain.Intent)
	// OnResult is called with every result the desk returns.
	OnResult(ctx context.Context, sessionID string, res domain.Result, elapsed time.Duration)
	// OnStockDrift is called when a stock adjustment could not be applied after an
	// order was created or cancelled. The catalog then needs reconciliation.
	OnStockDrift(ctx context.Context, model string, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) OnIntent(context.Context, string, domain.Intent) {}
func (NopObserver) OnResult(context.Context, string, domain.Result, time.Duration) {}
func (NopObserver) OnStockDrift(context.Context, string, error) {}
