package orders

import (
	"context"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/intent"
	"github.com/aretw0/orderdesk/pkg/match"
)

// propose starts the two-phase protocol: Idle -> Proposed.
func (d *Desk) propose(ctx context.Context, text string, session *domain.Session, sessionID string, known []string) domain.Result {
	if session.HasPending() {
		d.logger.Debug("Dropping stale proposal", "session_id", sessionID, "model", session.PendingOrder.Model)
		session.ClearPending()
	}

	model := match.ExtractModel(text, intent.CandidateModels(session, known))
	if model == "" {
		return domain.Result{Status: domain.StatusNoModel, Message: msgNoModel}
	}

	vehicles, err := d.store.SearchVehicles(ctx, model, 1)
	if err != nil {
		return d.fail(session, sessionID, "search vehicles", err)
	}
	if len(vehicles) == 0 {
		return domain.Result{Status: domain.StatusNotFound, Message: notFoundMessage(model), Model: model}
	}

	v := vehicles[0]
	if !v.InStock() {
		return domain.Result{Status: domain.StatusOutOfStock, Message: outOfStockMessage(v.Model), Model: v.Model}
	}

	phrase := session.Propose(domain.PendingOrder{
		Model:        v.Model,
		Price:        v.Price,
		DeliveryDays: v.DeliveryDays,
		Stock:        v.Stock,
	})
	d.logger.Info("Proposed order", "session_id", sessionID, "model", v.Model)

	stock := v.Stock
	return domain.Result{
		Status:       domain.StatusAwaitingConfirmation,
		Message:      proposalMessage(v, phrase),
		Model:        v.Model,
		Price:        v.Price,
		DeliveryDays: v.DeliveryDays,
		Stock:        &stock,
	}
}
