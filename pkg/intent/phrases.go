package intent

import "strings"

var closePhrases = []string{
	"that's it", "thats it", "done", "finished", "thank you", "thanks", "goodbye", "bye",
	"good bye", "see you later", "nothing else", "no more", "i'm done", "im done",
}

var statusPhrases = []string{
	"did you book", "order status", "my order", "what did i order", "check my order",
	"order confirmation", "my booking", "what cars did i order", "show my orders",
	"list my orders", "previous order", "last order", "order history", "my bookings",
	"status of my order", "find my order", "where is my order",
}

var cancelPhrases = []string{
	"cancel", "cancel my order", "cancel order", "cancel the order", "don't want",
	"do not want", "remove my order", "delete my order", "i changed my mind", "nevermind",
	"never mind",
}

// explicitCancel keeps status requests that name a cancellation out of OrderStatus.
var explicitCancel = []string{
	"cancel", "don't want", "do not want", "remove my order", "delete my order",
}

// acquisitionCancel keeps negated acquisitions ("I don't want") out of NewOrder.
var acquisitionCancel = []string{"cancel", "don't want", "do not want"}

var acquisitionVerbs = []string{"order", "buy", "purchase", "book", "get", "want", "need"}

var affirmatives = []string{"yes", "yeah", "yep", "confirm", "proceed", "go ahead"}

// ClosePhrases returns the phrases that end a conversation.
func ClosePhrases() []string { return clone(closePhrases) }

// StatusPhrases returns the phrases that ask about existing orders.
func StatusPhrases() []string { return clone(statusPhrases) }

// CancelPhrases returns the phrases that start a cancellation.
func CancelPhrases() []string { return clone(cancelPhrases) }

// AcquisitionVerbs returns the words that start a new order.
func AcquisitionVerbs() []string { return clone(acquisitionVerbs) }

// Affirmatives returns the generic confirmations answered with the exact phrase.
func Affirmatives() []string { return clone(affirmatives) }

func clone(s []string) []string {
	return append([]string(nil), s...)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
