/*
Package domain contains the core domain models of the orderdesk order-lifecycle manager.

It defines the entities the conversational core reads and mutates: catalog vehicles,
durable orders, the per-conversation Session and the Result returned to the dialogue layer.
This package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Vehicle: A catalog entry (model, price in cents, stock, delivery days).
  - Order: A durable order record, created directly in the confirmed state.
  - Session: Conversation-scoped state (pending proposal, cancellation clarification, order cache).
  - Result: A status code plus a human-readable message and optional order payload.
  - Intent: The branch selected by the classifier for an utterance.
*/
package domain
