package domain

import (
	"fmt"
	"time"
)

// DefaultUserName is used when the host does not supply a customer name.
const DefaultUserName = "Customer"

// OrderSource tells where a cancelable order was seen.
type OrderSource string

const (
	// SourceDurable marks an order read back from the durable store.
	SourceDurable OrderSource = "durable"
	// SourceCache marks an order only known from the session cache.
	SourceCache OrderSource = "cache"
)

// PendingOrder is an unpersisted proposal awaiting the confirmation phrase.
// Stock is the snapshot taken when the proposal was made.
type PendingOrder struct {
	Model        string `json:"model"`
	Price        int64  `json:"price"`
	DeliveryDays int    `json:"delivery_days"`
	Stock        int    `json:"stock"`
}

// CancellationOption is one candidate offered while disambiguating a cancellation.
// OrderID is empty for cache-only entries that never got an identifier.
type CancellationOption struct {
	OrderID string      `json:"order_id,omitempty"`
	Model   string      `json:"model"`
	Price   int64       `json:"price"`
	Source  OrderSource `json:"source"`
}

// CachedOrder is a confirmed order remembered by the session.
// It bridges the gap until the order is queryable from the durable store.
type CachedOrder struct {
	OrderID      string `json:"order_id"`
	Model        string `json:"model"`
	Price        int64  `json:"price"`
	DeliveryDays int    `json:"delivery_days"`
}

// Session is the per-conversation state threaded through every handler call.
// It is owned by exactly one conversation and never shared.
type Session struct {
	// ID is the conversation identifier. It doubles as the durable orders' session key.
	ID string `json:"id"`

	// UserName is the customer display name recorded on new orders.
	UserName string `json:"user_name,omitempty"`

	// PendingOrder and ConfirmationPhrase are set and cleared together.
	PendingOrder       *PendingOrder `json:"pending_order,omitempty"`
	ConfirmationPhrase string        `json:"pending_order_confirmation_phrase,omitempty"`

	AwaitingCancellationClarification bool                 `json:"awaiting_cancellation_clarification"`
	CancellationOptions               []CancellationOption `json:"cancellation_options,omitempty"`

	OrderedCars []CachedOrder `json:"ordered_cars,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted form of the whole session when stored through an
	// encrypting store. It is empty on live sessions.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ConfirmationPhraseFor returns the phrase a customer must repeat to confirm model.
func ConfirmationPhraseFor(model string) string {
	return "Confirm order for " + model
}

// HasPending reports whether a proposal is awaiting confirmation.
func (s *Session) HasPending() bool {
	return s.PendingOrder != nil
}

// Propose stores p as the pending order together with its confirmation phrase.
func (s *Session) Propose(p PendingOrder) string {
	phrase := ConfirmationPhraseFor(p.Model)
	s.PendingOrder = &p
	s.ConfirmationPhrase = phrase
	return phrase
}

// ClearPending drops the proposal and its phrase.
func (s *Session) ClearPending() {
	s.PendingOrder = nil
	s.ConfirmationPhrase = ""
}

// ClearCancellation leaves the clarification sub-state.
func (s *Session) ClearCancellation() {
	s.AwaitingCancellationClarification = false
	s.CancellationOptions = nil
}

// AwaitCancellation enters the clarification sub-state with the given candidates.
func (s *Session) AwaitCancellation(options []CancellationOption) {
	s.AwaitingCancellationClarification = true
	s.CancellationOptions = append([]CancellationOption(nil), options...)
}

// Reset clears every transient sub-state. The order cache is kept.
func (s *Session) Reset() {
	s.ClearPending()
	s.ClearCancellation()
}

// RememberOrder appends a confirmed order to the session cache.
func (s *Session) RememberOrder(o CachedOrder) {
	s.OrderedCars = append(s.OrderedCars, o)
}

// ForgetOrder removes cached entries for model. When orderID is set only the
// entry carrying that identifier is removed.
func (s *Session) ForgetOrder(model, orderID string) {
	kept := s.OrderedCars[:0]
	for _, c := range s.OrderedCars {
		if SameModel(c.Model, model) && (orderID == "" || c.OrderID == orderID) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		s.OrderedCars = nil
		return
	}
	s.OrderedCars = kept
}

// CachedOrderFor returns the first cached order for model.
func (s *Session) CachedOrderFor(model string) (CachedOrder, bool) {
	for _, c := range s.OrderedCars {
		if SameModel(c.Model, model) {
			return c, true
		}
	}
	return CachedOrder{}, false
}

// Validate checks the pending-order invariant.
func (s *Session) Validate() error {
	if (s.PendingOrder == nil) != (s.ConfirmationPhrase == "") {
		return fmt.Errorf("session %q: pending order and confirmation phrase out of sync (pending=%t, phrase=%q)",
			s.ID, s.PendingOrder != nil, s.ConfirmationPhrase)
	}
	return nil
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.PendingOrder != nil {
		p := *s.PendingOrder
		cp.PendingOrder = &p
	}
	if s.CancellationOptions != nil {
		cp.CancellationOptions = append([]CancellationOption(nil), s.CancellationOptions...)
	}
	if s.OrderedCars != nil {
		cp.OrderedCars = append([]CachedOrder(nil), s.OrderedCars...)
	}
	return &cp
}
