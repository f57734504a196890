package orders

import (
	"fmt"
	"strings"

	"github.com/aretw0/orderdesk/pkg/domain"
)

const (
	msgTryAgain = "I'm having trouble processing your request right now. Please try again."
	msgUnclear  = "I can help you with ordering vehicles, checking order status, or cancelling orders. What would you like to do?"
	msgGoodbye  = "Perfect! Thank you for choosing us. Have a great day!"
	msgNoModel  = "I couldn't identify a specific model from your request. Which vehicle are you interested in ordering?"

	msgNoOrdersToCancel = "You don't have any confirmed orders to cancel."
	msgNoOptions        = "I don't see any orders available for cancellation. Please try again."
	msgNoOrdersYet      = "You don't have any confirmed orders yet. Would you like to place an order?"
)

func proposalMessage(v domain.Vehicle, phrase string) string {
	return fmt.Sprintf("Great choice! I found the %s for you.\n\n"+
		"Details:\n"+
		"- Price: %s\n"+
		"- Estimated Delivery: %d days\n"+
		"- Stock: %d units available\n\n"+
		"To finalize this order, please confirm by saying: '%s'",
		v.Model, domain.FormatPrice(v.Price), v.DeliveryDays, v.Stock, phrase)
}

func notFoundMessage(model string) string {
	return fmt.Sprintf("I couldn't find '%s' in our inventory. Could you please specify which model you're interested in?", model)
}

func outOfStockMessage(model string) string {
	return fmt.Sprintf("Unfortunately, the %s is currently out of stock. Would you like me to check other similar models?", model)
}

func phraseReminder(model, phrase string) string {
	return fmt.Sprintf("To finalize your order for the %s, please say: '%s'", model, phrase)
}

func alreadyConfirmedMessage(model string) string {
	return fmt.Sprintf("Your %s order is already confirmed! Is there anything else I can help you with?", model)
}

func creationFailedMessage(model string) string {
	return fmt.Sprintf("I had trouble creating your %s order. Please try confirming again in a moment.", model)
}

func confirmedMessage(o *domain.Order) string {
	return fmt.Sprintf("Excellent! Your %s has been reserved!\n\n"+
		"Order Details:\n"+
		"- Vehicle: %s\n"+
		"- Price: %s\n"+
		"- Order ID: %s\n"+
		"- Estimated Delivery: %d days\n\n"+
		"Next Steps:\n"+
		"Please visit your nearest dealership to complete payment and finalize the purchase.\n\n"+
		"Is there anything else I can help you with?",
		o.Model, o.Model, domain.FormatPrice(o.Price), o.ID, o.DeliveryDays)
}

func cancelledMessage(model string) string {
	return fmt.Sprintf("Your %s order has been cancelled successfully.", model)
}

func cancelFailedMessage(model string) string {
	return fmt.Sprintf("I had trouble cancelling your %s order. Please contact customer service.", model)
}

func modelNotFoundMessage(model string, options []domain.CancellationOption) string {
	return fmt.Sprintf("I couldn't find a %s order. Your current confirmed orders are: %s. Which one would you like to cancel?",
		model, optionModels(options))
}

func multipleOrdersMessage(options []domain.CancellationOption) string {
	return fmt.Sprintf("You have multiple confirmed orders: %s. Which vehicle would you like to cancel?", optionModels(options))
}

func specifyCancellationMessage(options []domain.CancellationOption) string {
	return fmt.Sprintf("Please specify which vehicle you'd like to cancel from: %s", optionModels(options))
}

func singleStatusMessage(model string, price int64) string {
	return fmt.Sprintf("Yes, you have a confirmed order for the %s (%s). It should be ready for pickup at your nearest dealership.",
		model, domain.FormatPrice(price))
}

func multiStatusMessage(entries []statusEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%s)", e.Model, domain.FormatPrice(e.Price))
	}
	return fmt.Sprintf("You have %d confirmed orders: %s. All vehicles should be ready for pickup at your nearest dealership.",
		len(entries), strings.Join(parts, ", "))
}

func optionModels(options []domain.CancellationOption) string {
	models := make([]string, len(options))
	for i, o := range options {
		models[i] = o.Model
	}
	return strings.Join(models, ", ")
}
