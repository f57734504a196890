package domain

// Intent is the branch the classifier selected for an utterance.
type Intent string

const (
	IntentConfirmPendingOrder Intent = "confirm_pending_order"
	IntentConversationClose   Intent = "conversation_close"
	IntentOrderStatus         Intent = "order_status"
	IntentCancellation        Intent = "cancellation"
	IntentNewOrder            Intent = "new_order"
	IntentGenericYesOnPending Intent = "generic_yes_on_pending"
	IntentUnclear             Intent = "unclear"
)

// String implements fmt.Stringer.
func (i Intent) String() string {
	return string(i)
}

// Intents lists every intent in classifier priority order.
func Intents() []Intent {
	return []Intent{
		IntentConfirmPendingOrder,
		IntentConversationClose,
		IntentOrderStatus,
		IntentCancellation,
		IntentNewOrder,
		IntentGenericYesOnPending,
		IntentUnclear,
	}
}
