package domain

// Status is the machine-readable outcome code returned to the dialogue layer.
type Status string

const (
	StatusAwaitingConfirmation Status = "awaiting_specific_confirmation"
	StatusClarificationNeeded  Status = "clarification_needed"
	StatusConfirmed            Status = "confirmed"
	StatusAlreadyConfirmed     Status = "already_confirmed"
	StatusCreationFailed       Status = "creation_failed"
	StatusNotFound             Status = "not_found"
	StatusOutOfStock           Status = "out_of_stock"
	StatusNoModel              Status = "no_model"
	StatusNoOrders             Status = "no_orders"
	StatusHasOrders            Status = "has_orders"
	StatusCancelled            Status = "cancelled"
	StatusCancelFailed         Status = "cancel_failed"
	StatusModelNotFound        Status = "model_not_found"
	StatusNoOptions            Status = "no_options"
	StatusConversationComplete Status = "conversation_complete"
	StatusUnclear              Status = "unclear"
	StatusError                Status = "error"

	// Inventory answers.
	StatusFound   Status = "found"
	StatusNoQuery Status = "no_query"
)

// Result is what every handler returns: a status, a message for the customer and
// an optional payload describing the order or vehicle involved.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Intent  Intent `json:"intent,omitempty"`

	OrderID      string `json:"order_id,omitempty"`
	Model        string `json:"model,omitempty"`
	Price        int64  `json:"price,omitempty"`
	DeliveryDays int    `json:"delivery_days,omitempty"`
	Stock        *int   `json:"stock,omitempty"`

	Suggestions     []string `json:"suggestions,omitempty"`
	AvailableModels []string `json:"available_models,omitempty"`
}

// Failed reports whether the result signals a store or processing failure.
func (r Result) Failed() bool {
	switch r.Status {
	case StatusError, StatusCreationFailed, StatusCancelFailed:
		return true
	}
	return false
}
