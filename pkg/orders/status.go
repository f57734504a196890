package orders

import (
	"context"
	"slices"
	"strings"

	"github.com/aretw0/orderdesk/pkg/domain"
)

type statusEntry struct {
	Model string
	Price int64
}

// Status summarises the session's confirmed orders. Durable records and the session cache
// are merged by model; the durable record wins when both know a model.
func (d *Desk) Status(ctx context.Context, session *domain.Session, sessionID string) domain.Result {
	if sessionID == "" {
		sessionID = session.ID
	}

	orders, err := d.store.OrdersBySession(ctx, sessionID)
	if err != nil {
		return d.fail(session, sessionID, "list orders", err)
	}

	merged := make(map[string]statusEntry)
	for _, o := range domain.ConfirmedOrders(orders) {
		key := strings.ToLower(o.Model)
		if _, seen := merged[key]; !seen {
			merged[key] = statusEntry{Model: o.Model, Price: o.Price}
		}
	}
	for _, c := range session.OrderedCars {
		key := strings.ToLower(c.Model)
		if _, seen := merged[key]; !seen {
			merged[key] = statusEntry{Model: c.Model, Price: c.Price}
		}
	}

	switch len(merged) {
	case 0:
		return domain.Result{Status: domain.StatusNoOrders, Message: msgNoOrdersYet}
	case 1:
		for _, e := range merged {
			return domain.Result{
				Status:  domain.StatusHasOrders,
				Message: singleStatusMessage(e.Model, e.Price),
				Model:   e.Model,
				Price:   e.Price,
			}
		}
	}

	entries := make([]statusEntry, 0, len(merged))
	for _, e := range merged {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b statusEntry) int {
		return strings.Compare(a.Model, b.Model)
	})
	return domain.Result{Status: domain.StatusHasOrders, Message: multiStatusMessage(entries)}
}
