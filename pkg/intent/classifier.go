package intent

import (
	"strings"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/match"
)

// Classify selects the intent of utterance given the current session.
// knownModels feeds model extraction while a cancellation awaits clarification;
// the models of the offered options are always considered too.
// A nil session behaves like a fresh one.
func Classify(utterance string, session *domain.Session, knownModels []string) domain.Intent {
	if session == nil {
		session = &domain.Session{}
	}
	text := strings.ToLower(strings.TrimSpace(utterance))

	if session.HasPending() && match.AtLeast(text, session.ConfirmationPhrase, match.PhraseCutoff) {
		return domain.IntentConfirmPendingOrder
	}

	if containsAny(text, closePhrases) {
		return domain.IntentConversationClose
	}

	isStatus := containsAny(text, statusPhrases)
	if isStatus && !containsAny(text, explicitCancel) {
		return domain.IntentOrderStatus
	}

	if containsAny(text, cancelPhrases) {
		return domain.IntentCancellation
	}
	if session.AwaitingCancellationClarification && names(text, session, knownModels) {
		return domain.IntentCancellation
	}

	if containsAny(text, acquisitionVerbs) && !containsAny(text, acquisitionCancel) && !isStatus {
		return domain.IntentNewOrder
	}

	if session.HasPending() && containsAny(text, affirmatives) {
		return domain.IntentGenericYesOnPending
	}

	return domain.IntentUnclear
}

// names reports whether text refers to a known or offered model.
func names(text string, session *domain.Session, knownModels []string) bool {
	return match.ExtractModel(text, CandidateModels(session, knownModels)) != ""
}

// CandidateModels merges knownModels with the models of the session's cancellation
// options and cached orders.
func CandidateModels(session *domain.Session, knownModels []string) []string {
	out := make([]string, 0, len(knownModels)+len(session.CancellationOptions)+len(session.OrderedCars))
	out = append(out, knownModels...)
	for _, o := range session.CancellationOptions {
		out = append(out, o.Model)
	}
	for _, c := range session.OrderedCars {
		out = append(out, c.Model)
	}
	return out
}
