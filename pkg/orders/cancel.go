package orders

import (
	"context"
	"slices"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/match"
)

// cancel resolves which order the customer wants to cancel: Idle <-> AwaitingClarification.
func (d *Desk) cancel(ctx context.Context, text string, session *domain.Session, sessionID string, known []string) domain.Result {
	cancelable, err := d.cancelable(ctx, session, sessionID)
	if err != nil {
		return d.fail(session, sessionID, "list cancelable orders", err)
	}
	if len(cancelable) == 0 {
		session.ClearCancellation()
		return domain.Result{Status: domain.StatusNoOrders, Message: msgNoOrdersToCancel}
	}

	awaiting := session.AwaitingCancellationClarification
	candidates := cancelable
	if awaiting {
		candidates = slices.Clone(session.CancellationOptions)
		if len(candidates) == 0 {
			d.logger.Warn("Clarification pending without options", "session_id", sessionID)
			session.ClearCancellation()
			return domain.Result{Status: domain.StatusNoOptions, Message: msgNoOptions}
		}
	}

	vocabulary := slices.Clone(known)
	for _, o := range slices.Concat(cancelable, candidates) {
		vocabulary = append(vocabulary, o.Model)
	}
	named := match.ExtractModel(text, vocabulary)

	if named != "" {
		for _, c := range candidates {
			if match.AtLeast(named, c.Model, match.PhraseCutoff) {
				return d.cancelOption(ctx, session, sessionID, c)
			}
		}
		if !awaiting {
			// A named model with no open order never cancels another one.
			d.logger.Info("Named model has no open order", "session_id", sessionID, "model", named)
			session.AwaitCancellation(candidates)
			return domain.Result{
				Status:  domain.StatusModelNotFound,
				Message: modelNotFoundMessage(named, candidates),
				Model:   named,
			}
		}
	} else if len(candidates) == 1 {
		return d.cancelOption(ctx, session, sessionID, candidates[0])
	}

	session.AwaitCancellation(candidates)

	msg := multipleOrdersMessage(candidates)
	if awaiting {
		msg = specifyCancellationMessage(candidates)
	}
	return domain.Result{Status: domain.StatusClarificationNeeded, Message: msg}
}

// cancelable lists durable confirmed orders, then cached orders whose model has no
// durable confirmed order.
func (d *Desk) cancelable(ctx context.Context, session *domain.Session, sessionID string) ([]domain.CancellationOption, error) {
	orders, err := d.store.OrdersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	confirmed := domain.ConfirmedOrders(orders)

	var out []domain.CancellationOption
	for _, o := range confirmed {
		out = append(out, domain.CancellationOption{
			OrderID: o.ID,
			Model:   o.Model,
			Price:   o.Price,
			Source:  domain.SourceDurable,
		})
	}
	for _, c := range session.OrderedCars {
		durable := slices.ContainsFunc(confirmed, func(o domain.Order) bool {
			return domain.SameModel(o.Model, c.Model)
		})
		if durable {
			continue
		}
		out = append(out, domain.CancellationOption{
			OrderID: c.OrderID,
			Model:   c.Model,
			Price:   c.Price,
			Source:  domain.SourceCache,
		})
	}
	return out, nil
}

// cancelOption cancels one resolved order and leaves the clarification sub-state.
func (d *Desk) cancelOption(ctx context.Context, session *domain.Session, sessionID string, opt domain.CancellationOption) domain.Result {
	session.ClearCancellation()

	if opt.Source == domain.SourceDurable && opt.OrderID != "" {
		if err := d.cancelDurable(ctx, sessionID, opt.OrderID); err != nil {
			d.logger.Warn("Order cancellation failed", "session_id", sessionID, "order_id", opt.OrderID, "err", err)
			return domain.Result{
				Status:  domain.StatusCancelFailed,
				Message: cancelFailedMessage(opt.Model),
				OrderID: opt.OrderID,
				Model:   opt.Model,
			}
		}
	}

	session.ForgetOrder(opt.Model, opt.OrderID)
	d.logger.Info("Order cancelled", "session_id", sessionID, "model", opt.Model, "order_id", opt.OrderID, "source", opt.Source)

	return domain.Result{
		Status:  domain.StatusCancelled,
		Message: cancelledMessage(opt.Model),
		OrderID: opt.OrderID,
		Model:   opt.Model,
		Price:   opt.Price,
	}
}

// cancelDurable transitions the order and returns its unit to stock.
// Cancelling an already cancelled order succeeds without touching stock.
func (d *Desk) cancelDurable(ctx context.Context, sessionID, orderID string) error {
	o, err := d.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status == domain.OrderCancelled {
		return nil
	}
	if err := d.store.SetOrderStatus(ctx, o.ID, domain.OrderCancelled); err != nil {
		return err
	}
	if o.Status == domain.OrderConfirmed {
		d.adjustStock(ctx, sessionID, o.Model, 1)
	}
	return nil
}
