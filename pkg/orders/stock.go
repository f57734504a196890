package orders

import (
	"context"
	"errors"

	"github.com/sethvargo/go-retry"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// adjustStock applies delta with bounded exponential retry. A persistent failure does not
// undo the order change that triggered it; it is logged and reported as drift.
func (d *Desk) adjustStock(ctx context.Context, sessionID, model string, delta int) {
	backoff := retry.WithMaxRetries(d.stockAttempts-1, retry.NewExponential(d.stockBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := d.store.AdjustStock(ctx, model, delta)
		if err == nil || errors.Is(err, domain.ErrVehicleNotFound) {
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		d.logger.Warn("Stock adjustment failed, catalog needs reconciliation",
			"session_id", sessionID,
			"model", model,
			"delta", delta,
			"err", err,
		)
		d.observer.OnStockDrift(ctx, model, err)
	}
}
