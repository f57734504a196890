// Package inventory answers catalog questions ("is the Mustang available?", "how much is
// the Explorer EV?") without touching any conversation state.
package inventory
