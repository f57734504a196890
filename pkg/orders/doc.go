/*
Package orders is the conversational order desk: it turns one customer utterance plus the
conversation's Session into a Result, driving the two-phase order protocol.

An order is first proposed (the session holds a PendingOrder and the exact phrase the
customer must repeat) and only recorded in the durable store once that phrase is matched.
Cancellation resolves which order the customer means, asking back when several are open.
Status merges the durable store with the session's own cache of confirmed orders.

The Desk performs no locking. Callers serialise turns of the same session, typically
through session.Manager.Converse.
*/
package orders
