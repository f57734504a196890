package orders

import (
	"context"

	"github.com/aretw0/orderdesk/pkg/domain"
)

// confirm completes the two-phase protocol: Proposed -> Confirmed.
// A second confirmation for a model the session already ordered never creates a record.
func (d *Desk) confirm(ctx context.Context, session *domain.Session, sessionID, userName string) domain.Result {
	p := *session.PendingOrder

	existing, found, err := d.existingOrder(ctx, session, sessionID, p.Model)
	if err != nil {
		return d.fail(session, sessionID, "lookup existing orders", err)
	}
	if found {
		d.logger.Info("Order already confirmed", "session_id", sessionID, "model", existing.Model, "order_id", existing.OrderID)
		session.ClearPending()
		return domain.Result{
			Status:  domain.StatusAlreadyConfirmed,
			Message: alreadyConfirmedMessage(existing.Model),
			OrderID: existing.OrderID,
			Model:   existing.Model,
		}
	}

	order, err := d.store.CreateOrder(ctx, p.Model, userName, sessionID)
	if err != nil {
		// The proposal is kept so the customer can repeat the phrase.
		d.logger.Warn("Order creation failed", "session_id", sessionID, "model", p.Model, "err", err)
		return domain.Result{Status: domain.StatusCreationFailed, Message: creationFailedMessage(p.Model), Model: p.Model}
	}

	d.adjustStock(ctx, sessionID, order.Model, -1)

	session.ClearPending()
	session.RememberOrder(domain.CachedOrder{
		OrderID:      order.ID,
		Model:        order.Model,
		Price:        order.Price,
		DeliveryDays: order.DeliveryDays,
	})
	d.logger.Info("Order confirmed", "session_id", sessionID, "model", order.Model, "order_id", order.ID)

	return domain.Result{
		Status:       domain.StatusConfirmed,
		Message:      confirmedMessage(order),
		OrderID:      order.ID,
		Model:        order.Model,
		Price:        order.Price,
		DeliveryDays: order.DeliveryDays,
	}
}

// existingOrder looks for a confirmed order of model, first in the durable store and then
// in the session cache, which covers orders not yet visible to durable reads.
func (d *Desk) existingOrder(ctx context.Context, session *domain.Session, sessionID, model string) (domain.CachedOrder, bool, error) {
	orders, err := d.store.OrdersBySession(ctx, sessionID)
	if err != nil {
		return domain.CachedOrder{}, false, err
	}
	for _, o := range domain.ConfirmedOrders(orders) {
		if domain.SameModel(o.Model, model) {
			return domain.CachedOrder{OrderID: o.ID, Model: o.Model, Price: o.Price, DeliveryDays: o.DeliveryDays}, true, nil
		}
	}
	if c, ok := session.CachedOrderFor(model); ok {
		return c, true, nil
	}
	return domain.CachedOrder{}, false, nil
}
