package observability

import (
	"context"
	"time"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/orders"
)

// Aggregator fans every notification out to its observers, in registration order.
type Aggregator struct {
	observers []orders.Observer
}

// NewAggregator combines observers; nil entries are skipped.
func NewAggregator(observers ...orders.Observer) *Aggregator {
	a := &Aggregator{}
	for _, o := range observers {
		a.Add(o)
	}
	return a
}

// Add registers another observer. Not safe to call once the desk is running.
func (a *Aggregator) Add(o orders.Observer) {
	if o != nil {
		a.observers = append(a.observers, o)
	}
}

func (a *Aggregator) OnIntent(ctx context.Context, sessionID string, in domain.Intent) {
	for _, o := range a.observers {
		o.OnIntent(ctx, sessionID, in)
	}
}

func (a *Aggregator) OnResult(ctx context.Context, sessionID string, res domain.Result, elapsed time.Duration) {
	for _, o := range a.observers {
		o.OnResult(ctx, sessionID, res, elapsed)
	}
}

func (a *Aggregator) OnStockDrift(ctx context.Context, model string, err error) {
	for _, o := range a.observers {
		o.OnStockDrift(ctx, model, err)
	}
}
