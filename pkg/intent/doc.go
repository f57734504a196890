/*
Package intent classifies a customer utterance into exactly one domain.Intent.

Classification is a strict priority chain; the first matching rule wins:

 1. ConfirmPendingOrder: a proposal is pending and the utterance matches its phrase.
 2. ConversationClose: a closing phrase ("that's it", "thanks", "bye").
 3. OrderStatus: a status phrase ("my order", "order history") without a cancel keyword.
 4. Cancellation: a cancel phrase, or a model named while a cancellation awaits clarification.
 5. NewOrder: an acquisition verb ("order", "buy", "want") outside cancel and status requests.
 6. GenericYesOnPending: a plain "yes" while a proposal is pending.
 7. Unclear.
*/
package intent
