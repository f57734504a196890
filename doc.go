/*
Package orderdesk is a conversational vehicle-ordering desk for a car dealership.

It turns free-text customer utterances into order operations: proposing a vehicle,
confirming it only when the customer repeats an exact confirmation phrase, reporting
order status, and cancelling orders with clarification when the request is ambiguous.
Each turn returns a tagged Result the host renders however it likes.

# Concept

The core is a deterministic handler over a per-conversation Session. Fuzzy matching
(normalized Levenshtein similarity) resolves sloppy model names and near-miss phrases;
a priority-ordered classifier picks one intent per utterance. Orders live in a durable
store (memory, SQLite or PostgreSQL); sessions live in a session store (memory, files or
Redis). Hosts (HTTP, MCP, CLI chat) only move text in and Results out.

# Usage

	ctx := context.Background()
	desk, err := orderdesk.New(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer desk.Close()

	res, _ := desk.Converse(ctx, "session-123", "Ana", "I'd like to order a Mustang")
	fmt.Println(res.Message) // proposal, ending with the phrase to repeat

	res, _ = desk.Converse(ctx, "session-123", "", "Confirm order for Mustang")
	fmt.Println(res.Status) // confirmed

# Safety

A proposal never becomes an order without the exact phrase (up to a 0.8 similarity
tolerance). Confirming twice never creates a second order. Cancellation never guesses
between several orders: it asks.
*/
package orderdesk
